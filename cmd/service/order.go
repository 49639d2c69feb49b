package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/valenoirs/backoffice/cmd/model"
	"github.com/valenoirs/backoffice/cmd/repository"
)

type OrderInput struct {
	UserID   string            `json:"userId"`
	AdminID  string            `json:"adminId"`
	Products []model.OrderItem `json:"products"`
	Note     string            `json:"note"`
}

type OrderStatusInput struct {
	OrderID string `json:"orderId" form:"orderId"`
	Status  string `json:"status" form:"status"`
}

// OrderQuery mirrors ProductQuery: AdminID wins over UserID when both are
// set.
type OrderQuery struct {
	UserID  string
	AdminID string
}

type OrderService interface {
	Create(ctx context.Context, in OrderInput) (*model.Order, error)
	Read(ctx context.Context, q OrderQuery) ([]model.Order, error)
	UpdateStatus(ctx context.Context, in OrderStatusInput) error
	Cancel(ctx context.Context, orderID string) error
}

type orderService struct {
	repo  repository.OrderRepo
	users repository.UserRepo
}

func NewOrderService(r repository.OrderRepo, users repository.UserRepo) OrderService {
	return &orderService{repo: r, users: users}
}

func (s *orderService) Create(ctx context.Context, in OrderInput) (*model.Order, error) {
	if in.UserID == "" || in.AdminID == "" {
		return nil, fmt.Errorf("%w: userId and adminId are required", ErrValidation)
	}
	if len(in.Products) == 0 {
		return nil, fmt.Errorf("%w: order has no products", ErrValidation)
	}
	var total float64
	for _, item := range in.Products {
		if item.ProductID == "" || item.Quantity < 1 || item.Price < 0 {
			return nil, fmt.Errorf("%w: invalid item %q", ErrValidation, item.ProductID)
		}
		total += item.Price * float64(item.Quantity)
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocument) {
			return nil, fmt.Errorf("user %q: %w", in.UserID, ErrNotFound)
		}
		return nil, err
	}

	o := &model.Order{
		UserID:   in.UserID,
		User:     user.Name,
		AdminID:  in.AdminID,
		Products: in.Products,
		Total:    total,
		Status:   model.OrderPending,
		Note:     in.Note,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *orderService) Read(ctx context.Context, q OrderQuery) ([]model.Order, error) {
	f := repository.All()
	if q.UserID != "" {
		f = repository.Eq("userId", q.UserID)
	}
	if q.AdminID != "" {
		f = repository.Eq("adminId", q.AdminID)
	}
	return s.repo.GetFiltered(ctx, f)
}

func (s *orderService) UpdateStatus(ctx context.Context, in OrderStatusInput) error {
	status := model.OrderStatus(in.Status)
	if !status.Valid() {
		return fmt.Errorf("%w: status %q", ErrValidation, in.Status)
	}
	found, err := s.repo.Update(ctx, in.OrderID, repository.Fields{"status": status})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("order %q: %w", in.OrderID, ErrNotFound)
	}
	return nil
}

// Cancel is only allowed while the order is still pending. The status check
// and the write are one conditional update.
func (s *orderService) Cancel(ctx context.Context, orderID string) error {
	cancelled, err := s.repo.UpdateIf(ctx, orderID,
		repository.Eq("status", string(model.OrderPending)),
		repository.Fields{"status": model.OrderCancel})
	if err != nil {
		return err
	}
	if cancelled {
		return nil
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocument) {
			return fmt.Errorf("order %q: %w", orderID, ErrNotFound)
		}
		return err
	}
	return fmt.Errorf("%w: order %q is %s", ErrValidation, orderID, o.Status)
}
