package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/valenoirs/backoffice/cmd/model"
)

type OrderRepo interface {
	GetFiltered(ctx context.Context, f Filter) ([]model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	Create(ctx context.Context, o *model.Order) error
	Update(ctx context.Context, id string, set Fields) (bool, error)
	// UpdateIf applies set only while the order still matches where.
	UpdateIf(ctx context.Context, id string, where Filter, set Fields) (bool, error)
}

type orderRepo struct {
	coll Collection[model.Order]
}

func NewOrderRepo(c Collection[model.Order]) OrderRepo {
	return &orderRepo{coll: c}
}

func (r *orderRepo) GetFiltered(ctx context.Context, f Filter) ([]model.Order, error) {
	return r.coll.Find(ctx, f)
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return r.coll.FindByID(ctx, id)
}

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	now := time.Now().UTC()
	o.ID = uuid.New().String()
	o.CreatedAt, o.UpdatedAt = now, now
	return r.coll.Insert(ctx, o.ID, o)
}

func (r *orderRepo) Update(ctx context.Context, id string, set Fields) (bool, error) {
	return r.coll.UpdateByID(ctx, id, set)
}

func (r *orderRepo) UpdateIf(ctx context.Context, id string, where Filter, set Fields) (bool, error) {
	return r.coll.UpdateWhere(ctx, id, where, set)
}
