package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/valenoirs/backoffice/cmd/model"
	"github.com/valenoirs/backoffice/cmd/repository"
)

type SignUpInput struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	Password    string `json:"password" form:"password"`
	Description string `json:"description" form:"description"`
	Address     string `json:"address" form:"address"`
}

type SignInInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AdminUpdateInput struct {
	Name        string `json:"name" form:"name"`
	Phone       string `json:"phone" form:"phone"`
	Description string `json:"description" form:"description"`
	Address     string `json:"address" form:"address"`
	IsOpen      string `json:"isOpen" form:"isOpen"`
}

type PasswordInput struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

type AdminQuery struct {
	AdminID string
	Search  string
}

type AdminService interface {
	SignUp(ctx context.Context, in SignUpInput, pirt, halal string) (*model.Admin, error)
	SignIn(ctx context.Context, in SignInInput) (*model.Admin, error)
	UpdateProfile(ctx context.Context, adminID string, in AdminUpdateInput) error
	ToggleOpen(ctx context.Context, adminID, isOpen string) (bool, error)
	ToggleActive(ctx context.Context, adminID, isActive string) (bool, error)
	ChangePassword(ctx context.Context, adminID string, in PasswordInput) error
	Rate(ctx context.Context, adminID string, rating float64) (*model.Admin, error)
	Read(ctx context.Context, q AdminQuery) ([]model.Admin, error)
}

type adminService struct {
	repo repository.AdminRepo
}

func NewAdminService(r repository.AdminRepo) AdminService {
	return &adminService{repo: r}
}

// SignUp registers an inactive admin. Both certificate paths are required.
func (s *adminService) SignUp(ctx context.Context, in SignUpInput, pirt, halal string) (*model.Admin, error) {
	if pirt == "" || halal == "" {
		return nil, fmt.Errorf("%w: both certificates are required", ErrValidation)
	}
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email, phone and password are required", ErrValidation)
	}

	a := &model.Admin{
		Name:             strings.TrimSpace(in.Name),
		Email:            strings.TrimSpace(in.Email),
		Phone:            strings.TrimSpace(in.Phone),
		Password:         in.Password,
		Description:      in.Description,
		Address:          in.Address,
		CertificatePIRT:  pirt,
		CertificateHalal: halal,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("admin %s: %w", a.Email, ErrDuplicate)
		}
		return nil, err
	}
	return a, nil
}

func (s *adminService) SignIn(ctx context.Context, in SignInInput) (*model.Admin, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrCredentials
	}
	a, err := s.repo.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return nil, ErrCredentials
		}
		return nil, err
	}
	if !a.IsActive {
		return nil, fmt.Errorf("admin %s: %w", a.Email, ErrInactive)
	}
	return a, nil
}

func (s *adminService) UpdateProfile(ctx context.Context, adminID string, in AdminUpdateInput) error {
	set := repository.Fields{}
	if v := strings.TrimSpace(in.Name); v != "" {
		set["name"] = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		set["phone"] = v
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	if in.Address != "" {
		set["address"] = in.Address
	}
	return s.update(ctx, adminID, set)
}

func (s *adminService) update(ctx context.Context, adminID string, set repository.Fields) error {
	found, err := s.repo.Update(ctx, adminID, set)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return fmt.Errorf("admin %q: %w", adminID, ErrDuplicate)
		}
		return err
	}
	if !found {
		return fmt.Errorf("admin %q: %w", adminID, ErrNotFound)
	}
	return nil
}

// ToggleOpen follows the same inversion contract as the product stock
// toggle.
func (s *adminService) ToggleOpen(ctx context.Context, adminID, isOpen string) (bool, error) {
	next := toggled(isOpen)
	return next, s.update(ctx, adminID, repository.Fields{"isOpen": next})
}

func (s *adminService) ToggleActive(ctx context.Context, adminID, isActive string) (bool, error) {
	next := toggled(isActive)
	return next, s.update(ctx, adminID, repository.Fields{"isActive": next})
}

func (s *adminService) ChangePassword(ctx context.Context, adminID string, in PasswordInput) error {
	if in.OldPassword == "" || in.NewPassword == "" {
		return fmt.Errorf("%w: old and new password are required", ErrValidation)
	}
	found, err := s.repo.ChangePassword(ctx, adminID, in.OldPassword, in.NewPassword)
	if errors.Is(err, repository.ErrWrongPassword) {
		return ErrCredentials
	}
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("admin %q: %w", adminID, ErrNotFound)
	}
	return nil
}

// Rate appends a 1–5 rating and stores the mean with one decimal as the
// rating summary. The append is atomic; the summary is computed from the
// list the append returned, so under concurrent ratings it may trail by one
// until the next rating.
func (s *adminService) Rate(ctx context.Context, adminID string, rating float64) (*model.Admin, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	a, err := s.repo.AddRating(ctx, adminID, rating)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocument) {
			return nil, fmt.Errorf("admin %q: %w", adminID, ErrNotFound)
		}
		return nil, err
	}

	a.Rated = meanRating(a.Rating)
	if err := s.update(ctx, adminID, repository.Fields{"rated": a.Rated}); err != nil {
		return nil, err
	}
	a.Password = ""
	return a, nil
}

func meanRating(ratings []float64) string {
	if len(ratings) == 0 {
		return model.DefaultRated
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return strconv.FormatFloat(sum/float64(len(ratings)), 'f', 1, 64)
}

// Read never returns password hashes.
func (s *adminService) Read(ctx context.Context, q AdminQuery) ([]model.Admin, error) {
	var (
		admins []model.Admin
		err    error
	)
	switch {
	case q.Search != "":
		admins, err = s.repo.GetFiltered(ctx, repository.Like("name", q.Search))
	case q.AdminID != "":
		var a *model.Admin
		a, err = s.repo.GetByID(ctx, q.AdminID)
		if errors.Is(err, repository.ErrNoDocument) {
			return []model.Admin{}, nil
		}
		if a != nil {
			admins = []model.Admin{*a}
		}
	default:
		admins, err = s.repo.GetFiltered(ctx, repository.All())
	}
	if err != nil {
		return nil, err
	}
	for i := range admins {
		admins[i].Password = ""
	}
	return admins, nil
}
