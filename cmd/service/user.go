package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valenoirs/backoffice/cmd/model"
	"github.com/valenoirs/backoffice/cmd/repository"
)

type UserSignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

type UserUpdateInput struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UserService interface {
	SignUp(ctx context.Context, in UserSignUpInput) (*model.User, error)
	SignIn(ctx context.Context, in SignInInput) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	Update(ctx context.Context, in UserUpdateInput) error
}

type userService struct {
	repo repository.UserRepo
}

func NewUserService(r repository.UserRepo) UserService {
	return &userService{repo: r}
}

func (s *userService) SignUp(ctx context.Context, in UserSignUpInput) (*model.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	u := &model.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Password: in.Password,
		Address:  in.Address,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
		}
		return nil, err
	}
	u.Password = ""
	return u, nil
}

func (s *userService) SignIn(ctx context.Context, in SignInInput) (*model.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrCredentials
	}
	u, err := s.repo.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return nil, ErrCredentials
		}
		return nil, err
	}
	u.Password = ""
	return u, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocument) {
			return nil, fmt.Errorf("user %q: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	u.Password = ""
	return u, nil
}

func (s *userService) Update(ctx context.Context, in UserUpdateInput) error {
	set := repository.Fields{}
	if v := strings.TrimSpace(in.Name); v != "" {
		set["name"] = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		set["phone"] = v
	}
	if in.Address != "" {
		set["address"] = in.Address
	}
	found, err := s.repo.Update(ctx, in.UserID, set)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("user %q: %w", in.UserID, ErrNotFound)
	}
	return nil
}
