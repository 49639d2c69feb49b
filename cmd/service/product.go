package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/valenoirs/backoffice/cmd/model"
	"github.com/valenoirs/backoffice/cmd/repository"
)

// ProductInput is the product form as submitted by the dashboard.
type ProductInput struct {
	ProductID   string `json:"productId" form:"productId"`
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price" form:"price"`
	Available   string `json:"available" form:"available"`
}

// ProductQuery holds the optional read filters. When both are set, Search
// wins.
type ProductQuery struct {
	AdminID string
	Search  string
}

type ProductService interface {
	Create(ctx context.Context, adminID, adminName string, in ProductInput, picture string) (*model.Product, error)
	Update(ctx context.Context, in ProductInput, picture string) error
	ToggleStock(ctx context.Context, productID, available string) (bool, error)
	Delete(ctx context.Context, productID string) error
	Read(ctx context.Context, q ProductQuery) ([]model.Product, error)
}

type productService struct {
	repo repository.ProductRepo
}

func NewProductService(r repository.ProductRepo) ProductService {
	return &productService{repo: r}
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || price < 0 {
		return 0, fmt.Errorf("%w: price %q", ErrValidation, raw)
	}
	return price, nil
}

// Create requires a stored picture; the owner comes from the session, never
// from the form.
func (s *productService) Create(ctx context.Context, adminID, adminName string, in ProductInput, picture string) (*model.Product, error) {
	if picture == "" {
		return nil, fmt.Errorf("%w: picture is required", ErrValidation)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       price,
		Picture:     picture,
		Available:   true,
		AdminID:     adminID,
		Admin:       adminName,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies the non-empty fields of in to the product. Ownership of
// the product is not checked.
func (s *productService) Update(ctx context.Context, in ProductInput, picture string) error {
	set := repository.Fields{}
	if name := strings.TrimSpace(in.Name); name != "" {
		set["name"] = name
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	if in.Price != "" {
		price, err := parsePrice(in.Price)
		if err != nil {
			return err
		}
		set["price"] = price
	}
	if picture != "" {
		set["picture"] = picture
	}

	found, err := s.repo.Update(ctx, in.ProductID, set)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("product %q: %w", in.ProductID, ErrNotFound)
	}
	return nil
}

// ToggleStock persists the negation of the submitted availability and
// returns the stored value.
func (s *productService) ToggleStock(ctx context.Context, productID, available string) (bool, error) {
	next := toggled(available)
	found, err := s.repo.Update(ctx, productID, repository.Fields{"available": next})
	if err != nil {
		return false, err
	}
	if !found {
		return false, fmt.Errorf("product %q: %w", productID, ErrNotFound)
	}
	return next, nil
}

func (s *productService) Delete(ctx context.Context, productID string) error {
	deleted, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("product %q: %w", productID, ErrNotFound)
	}
	return nil
}

func (s *productService) Read(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	switch {
	case q.Search != "":
		return s.repo.GetFiltered(ctx, repository.Like("name", q.Search))
	case q.AdminID != "":
		return s.repo.GetFiltered(ctx, repository.Eq("adminId", q.AdminID))
	}
	return s.repo.GetAll(ctx)
}
