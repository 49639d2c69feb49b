package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/valenoirs/backoffice/cmd/model"
)

// ProductRepo gives access to the products collection.
type ProductRepo interface {
	GetAll(ctx context.Context) ([]model.Product, error)
	GetFiltered(ctx context.Context, f Filter) ([]model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, id string, set Fields) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type productRepo struct {
	coll Collection[model.Product]
}

// NewProductRepo builds a repository over any document backend.
func NewProductRepo(c Collection[model.Product]) ProductRepo {
	return &productRepo{coll: c}
}

func (r *productRepo) GetAll(ctx context.Context) ([]model.Product, error) {
	return r.coll.Find(ctx, All())
}

func (r *productRepo) GetFiltered(ctx context.Context, f Filter) ([]model.Product, error) {
	return r.coll.Find(ctx, f)
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return r.coll.FindByID(ctx, id)
}

// Create assigns a fresh id and timestamps before inserting p.
func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	now := time.Now().UTC()
	p.ID = uuid.New().String()
	p.CreatedAt, p.UpdatedAt = now, now
	return r.coll.Insert(ctx, p.ID, p)
}

func (r *productRepo) Update(ctx context.Context, id string, set Fields) (bool, error) {
	return r.coll.UpdateByID(ctx, id, set)
}

func (r *productRepo) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.DeleteByID(ctx, id)
}
