package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valenoirs/backoffice/cmd/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("old password is incorrect")
)

type AdminRepo interface {
	Authenticate(ctx context.Context, email, password string) (*model.Admin, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) (bool, error)
	Create(ctx context.Context, a *model.Admin) error
	GetByID(ctx context.Context, id string) (*model.Admin, error)
	GetFiltered(ctx context.Context, f Filter) ([]model.Admin, error)
	Update(ctx context.Context, id string, set Fields) (bool, error)
	AddRating(ctx context.Context, id string, rating float64) (*model.Admin, error)
}

type adminRepo struct {
	coll Collection[model.Admin]
}

func NewAdminRepo(c Collection[model.Admin]) AdminRepo {
	return &adminRepo{coll: c}
}

func (r *adminRepo) Authenticate(ctx context.Context, email, password string) (*model.Admin, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password cannot be empty")
	}

	admin, err := r.coll.FindOne(ctx, Eq("email", strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// ChangePassword reports false when no admin has the given id.
func (r *adminRepo) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) (bool, error) {
	if id == "" || oldPassword == "" || newPassword == "" {
		return false, errors.New("invalid input parameters")
	}

	admin, err := r.coll.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return false, nil
		}
		return false, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(oldPassword)); err != nil {
		return true, ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return true, err
	}
	return r.coll.UpdateByID(ctx, id, Fields{"password": string(hashed)})
}

// Create hashes the plain password held in a and fills schema defaults.
func (r *adminRepo) Create(ctx context.Context, a *model.Admin) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	a.ID = uuid.New().String()
	a.Email = strings.ToLower(a.Email)
	a.Password = string(hashed)
	a.CreatedAt, a.UpdatedAt = now, now
	if a.Description == "" {
		a.Description = model.DefaultDescription
	}
	if a.Address == "" {
		a.Address = model.DefaultAddress
	}
	if a.Rated == "" {
		a.Rated = model.DefaultRated
	}
	if len(a.Rating) == 0 {
		a.Rating = []float64{model.DefaultRating}
	}
	return r.coll.Insert(ctx, a.ID, a)
}

func (r *adminRepo) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	return r.coll.FindByID(ctx, id)
}

func (r *adminRepo) GetFiltered(ctx context.Context, f Filter) ([]model.Admin, error) {
	return r.coll.Find(ctx, f)
}

func (r *adminRepo) Update(ctx context.Context, id string, set Fields) (bool, error) {
	return r.coll.UpdateByID(ctx, id, set)
}

// AddRating appends rating in a single store operation, so concurrent
// ratings are never lost.
func (r *adminRepo) AddRating(ctx context.Context, id string, rating float64) (*model.Admin, error) {
	return r.coll.Append(ctx, id, "rating", rating)
}
