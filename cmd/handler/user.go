package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/valenoirs/backoffice/cmd/service"
	"github.com/valenoirs/backoffice/cmd/session"
	"go.uber.org/zap"
)

// UserHandler is the storefront customer API.
type UserHandler struct {
	svc service.UserService
	log *zap.Logger
}

func NewUserHandler(s service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: s, log: log.Named("user")}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/signup", apiRoute(h.signUp))
		r.Post("/signin", apiRoute(h.signIn))
		r.Get("/", apiRoute(h.read))
		r.Put("/", apiRoute(h.update))
	})
}

var errBadBody = fail(http.StatusBadRequest, "ValidationError", "Invalid request body.")

func (h *UserHandler) signUp(r *http.Request, _ session.Actor) Reply {
	var in service.UserSignUpInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		return errBadBody
	}
	u, err := h.svc.SignUp(r.Context(), in)
	switch {
	case errors.Is(err, service.ErrValidation):
		return fail(http.StatusBadRequest, "ValidationError", "Name, email and password are required.")
	case errors.Is(err, service.ErrDuplicate):
		return fail(http.StatusConflict, "DuplicateError", "Email already registered.")
	case err != nil:
		h.log.Error("user sign up error", zap.Error(err))
		return fail(http.StatusInternalServerError, "SignUpError", "Something went wrong while signing up, please try again.")
	}
	h.log.Info("new user registered", zap.String("userId", u.ID))
	return ok("user", u)
}

func (h *UserHandler) signIn(r *http.Request, _ session.Actor) Reply {
	var in service.SignInInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		return errBadBody
	}
	u, err := h.svc.SignIn(r.Context(), in)
	switch {
	case errors.Is(err, service.ErrCredentials):
		return fail(http.StatusUnauthorized, "SignInError", "Invalid email or password.")
	case err != nil:
		h.log.Error("user sign in error", zap.Error(err))
		return fail(http.StatusInternalServerError, "SignInError", "Something went wrong while signing in, please try again.")
	}
	return ok("user", u)
}

func (h *UserHandler) read(r *http.Request, _ session.Actor) Reply {
	u, err := h.svc.Get(r.Context(), r.URL.Query().Get("userId"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(http.StatusNotFound, "NotFound", "User not found.")
	case err != nil:
		h.log.Error("get user error", zap.Error(err))
		return fail(http.StatusInternalServerError, "GetUserError", "Something went wrong while getting user data, please try again.")
	}
	return ok("user", u)
}

func (h *UserHandler) update(r *http.Request, _ session.Actor) Reply {
	var in service.UserUpdateInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		return errBadBody
	}
	err := h.svc.Update(r.Context(), in)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(http.StatusNotFound, "NotFound", "User not found.")
	case err != nil:
		h.log.Error("update user error", zap.Error(err))
		return fail(http.StatusInternalServerError, "UpdateUserError", "Something went wrong while updating user data, please try again.")
	}
	return ok("message", "User updated.")
}
