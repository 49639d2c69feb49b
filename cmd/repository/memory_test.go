package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valenoirs/backoffice/cmd/model"
)

func seedProducts(t *testing.T) ProductRepo {
	t.Helper()
	repo := NewProductRepo(NewMemoryCollection[model.Product](Products))
	ctx := context.Background()
	for _, p := range []model.Product{
		{Name: "Roti Bakar", AdminID: "a1", Available: true},
		{Name: "Kue ROTI Coklat", AdminID: "a2", Available: true},
		{Name: "Es Teh", AdminID: "a1"},
	} {
		require.NoError(t, repo.Create(ctx, &p))
	}
	return repo
}

func TestMemoryFind(t *testing.T) {
	repo := seedProducts(t)
	ctx := context.Background()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Roti Bakar", all[0].Name, "insertion order is kept")

	owned, err := repo.GetFiltered(ctx, Eq("adminId", "a1"))
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	found, err := repo.GetFiltered(ctx, Like("name", "roti"))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Kue ROTI Coklat", found[1].Name)

	avail, err := repo.GetFiltered(ctx, Eq("available", true))
	require.NoError(t, err)
	assert.Len(t, avail, 2)

	_, err = repo.GetFiltered(ctx, Like("name", "("))
	assert.Error(t, err)
}

func TestMemoryUpdateAndDelete(t *testing.T) {
	repo := seedProducts(t)
	ctx := context.Background()
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	id := all[0].ID

	ok, err := repo.Update(ctx, id, Fields{"available": false, "price": 12000.0})
	require.NoError(t, err)
	assert.True(t, ok)

	p, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, p.Available)
	assert.Equal(t, 12000.0, p.Price)
	assert.Equal(t, "Roti Bakar", p.Name)
	assert.False(t, p.UpdatedAt.Before(p.CreatedAt))

	ok, err = repo.Update(ctx, "missing", Fields{"name": "x"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.GetByID(ctx, id)
	assert.True(t, errors.Is(err, ErrNoDocument))
}

func TestMemoryUniqueFields(t *testing.T) {
	repo := NewAdminRepo(NewMemoryCollection[model.Admin](Admins))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Admin{Name: "A", Email: "a@shop.id", Phone: "1", Password: "secret"}))
	err := repo.Create(ctx, &model.Admin{Name: "B", Email: "A@shop.id", Phone: "2", Password: "secret"})
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	second := &model.Admin{Name: "C", Email: "c@shop.id", Phone: "3", Password: "secret"}
	require.NoError(t, repo.Create(ctx, second))
	_, err = repo.Update(ctx, second.ID, Fields{"phone": "1"})
	assert.True(t, errors.Is(err, ErrDuplicateKey))
}

func TestAdminAuthenticate(t *testing.T) {
	repo := NewAdminRepo(NewMemoryCollection[model.Admin](Admins))
	ctx := context.Background()
	a := &model.Admin{Name: "Toko", Email: "toko@shop.id", Phone: "08", Password: "rahasia"}
	require.NoError(t, repo.Create(ctx, a))
	assert.NotEqual(t, "rahasia", a.Password)
	assert.Equal(t, model.DefaultDescription, a.Description)
	assert.Equal(t, []float64{3}, a.Rating)

	got, err := repo.Authenticate(ctx, "TOKO@shop.id", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = repo.Authenticate(ctx, "toko@shop.id", "salah")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = repo.Authenticate(ctx, "nobody@shop.id", "rahasia")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	found, err := repo.ChangePassword(ctx, a.ID, "salah", "baru")
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrWrongPassword)

	found, err = repo.ChangePassword(ctx, a.ID, "rahasia", "baru")
	require.NoError(t, err)
	assert.True(t, found)
	_, err = repo.Authenticate(ctx, "toko@shop.id", "baru")
	assert.NoError(t, err)

	found, err = repo.ChangePassword(ctx, "missing", "a", "b")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryUpdateWhere(t *testing.T) {
	repo := NewOrderRepo(NewMemoryCollection[model.Order](Orders))
	ctx := context.Background()
	o := &model.Order{UserID: "u1", AdminID: "a1", Status: model.OrderPending}
	require.NoError(t, repo.Create(ctx, o))

	pending := Eq("status", string(model.OrderPending))
	ok, err := repo.UpdateIf(ctx, o.ID, pending, Fields{"status": model.OrderCancel})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateIf(ctx, o.ID, pending, Fields{"status": model.OrderDone})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancel, got.Status)

	ok, err = repo.UpdateIf(ctx, "missing", All(), Fields{"status": model.OrderDone})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryAppendIsAtomic(t *testing.T) {
	repo := NewAdminRepo(NewMemoryCollection[model.Admin](Admins))
	ctx := context.Background()
	a := &model.Admin{Name: "Toko", Email: "toko@shop.id", Phone: "08", Password: "rahasia"}
	require.NoError(t, repo.Create(ctx, a))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddRating(ctx, a.ID, 5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, got.Rating, 21)

	_, err = repo.AddRating(ctx, "missing", 5)
	assert.ErrorIs(t, err, ErrNoDocument)
}
