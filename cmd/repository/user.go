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

type UserRepo interface {
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, id string, set Fields) (bool, error)
}

type userRepo struct {
	coll Collection[model.User]
}

func NewUserRepo(c Collection[model.User]) UserRepo {
	return &userRepo{coll: c}
}

func (r *userRepo) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := r.coll.FindOne(ctx, Eq("email", strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	u.ID = uuid.New().String()
	u.Email = strings.ToLower(u.Email)
	u.Password = string(hashed)
	u.CreatedAt, u.UpdatedAt = now, now
	return r.coll.Insert(ctx, u.ID, u)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.coll.FindByID(ctx, id)
}

func (r *userRepo) Update(ctx context.Context, id string, set Fields) (bool, error) {
	return r.coll.UpdateByID(ctx, id, set)
}
