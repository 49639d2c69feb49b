package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/valenoirs/backoffice/cmd/service"
	"github.com/valenoirs/backoffice/cmd/session"
	"go.uber.org/zap"
)

const (
	msgRootSignInInvalid = "Username atau password salah."
	msgRootSignIn        = "Berhasil masuk sebagai root."
	msgActivationUpdated = "Status aktivasi admin berhasil diperbarui."
	msgActivationErr     = "Terjadi kesalahan saat mengubah status admin, coba lagi."
)

// RootHandler serves the platform operator, who activates admin accounts.
type RootHandler struct {
	auth     *service.RootAuth
	admins   service.AdminService
	sessions *session.Manager
	log      *zap.Logger
}

func NewRootHandler(auth *service.RootAuth, admins service.AdminService, sm *session.Manager, log *zap.Logger) *RootHandler {
	return &RootHandler{auth: auth, admins: admins, sessions: sm, log: log.Named("root")}
}

func (h *RootHandler) RegisterRoutes(r chi.Router) {
	r.Route("/root", func(r chi.Router) {
		r.Post("/signin", formRoute(h.sessions, h.log, h.signIn))
		r.Get("/signout", formRoute(h.sessions, h.log, h.signOut))
		r.With(h.sessions.RequireRoot).Put("/admin", formRoute(h.sessions, h.log, h.activate))
	})
}

func (h *RootHandler) signIn(r *http.Request, actor session.Actor) Outcome {
	var in struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := bind(r, &in); err != nil {
		return redirect("/root/signin", session.KeyRoot, msgRootSignInInvalid)
	}
	if err := h.auth.Verify(in.Username, in.Password); err != nil {
		h.log.Info("root sign in rejected", zap.String("username", in.Username))
		return redirect("/root/signin", session.KeyRoot, msgRootSignInInvalid)
	}

	next := actor
	next.Root = true
	out := redirect("/root", session.KeyRoot, msgRootSignIn)
	out.Session = &next
	return out
}

func (h *RootHandler) signOut(r *http.Request, actor session.Actor) Outcome {
	next := actor
	next.Root = false
	out := redirect("/root/signin", session.KeyRoot, msgSignOut)
	out.Session = &next
	return out
}

// activate toggles an admin's activation with the form-toggle contract:
// the submitted isActive is the value currently displayed.
func (h *RootHandler) activate(r *http.Request, _ session.Actor) Outcome {
	var in struct {
		AdminID  string `json:"adminId" form:"adminId"`
		IsActive string `json:"isActive" form:"isActive"`
	}
	if err := bind(r, &in); err != nil {
		return redirect("/root", session.KeyRoot, msgActivationErr)
	}

	active, err := h.admins.ToggleActive(r.Context(), in.AdminID, in.IsActive)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return redirect("/root", session.KeyRoot, msgAdminNotFound)
	case err != nil:
		h.log.Error("activate admin error", zap.Error(err))
		return redirect("/root", session.KeyRoot, msgActivationErr)
	}

	h.log.Info("admin activation updated", zap.String("adminId", in.AdminID), zap.Bool("isActive", active))
	return redirect("/root", session.KeyRoot, msgActivationUpdated)
}
