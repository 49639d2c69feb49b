package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/valenoirs/backoffice/cmd/service"
	"github.com/valenoirs/backoffice/cmd/session"
	"github.com/valenoirs/backoffice/cmd/upload"
	"go.uber.org/zap"
)

const (
	msgCertificateFormat = "Format sertifikat tidak sesuai."
	msgSignUpInvalid     = "Data pendaftaran tidak lengkap."
	msgSignUpDuplicate   = "Email atau nomor telepon sudah terdaftar."
	msgSignUpSuccess     = "Pendaftaran berhasil, tunggu aktivasi akun."
	msgSignUpErr         = "Terjadi kesalahan saat mendaftar, coba lagi."
	msgSignInInvalid     = "Email atau password salah."
	msgSignInInactive    = "Akun belum diaktivasi."
	msgSignInSuccess     = "Berhasil masuk."
	msgSignInErr         = "Terjadi kesalahan saat masuk, coba lagi."
	msgSignOut           = "Berhasil keluar."
	msgAdminNotFound     = "Akun tidak ditemukan."
	msgAdminUpdated      = "Profil berhasil diperbarui."
	msgAdminDuplicate    = "Nomor telepon sudah digunakan."
	msgAdminUpdateErr    = "Terjadi kesalahan saat mengubah profil, coba lagi."
	msgStatusUpdated     = "Status toko berhasil diperbarui."
	msgPasswordChanged   = "Password berhasil diubah."
	msgPasswordWrong     = "Password lama salah."
	msgPasswordInvalid   = "Password tidak boleh kosong."
	msgGetAdminErr       = "Something went wrong while getting admin data, please try again."
)

type AdminHandler struct {
	svc      service.AdminService
	sessions *session.Manager
	log      *zap.Logger
	uploads  func(http.Handler) http.Handler
}

func NewAdminHandler(s service.AdminService, sm *session.Manager, log *zap.Logger, uploadDir string) *AdminHandler {
	named := log.Named("admin")
	return &AdminHandler{
		svc:      s,
		sessions: sm,
		log:      named,
		uploads: upload.Gate(named, uploadDir, "certificate",
			upload.Field{Name: "pirt", Exts: upload.Certificate},
			upload.Field{Name: "halal", Exts: upload.Certificate},
		),
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/signin", formRoute(h.sessions, h.log, h.signIn))
		r.With(h.uploads).Post("/signup", formRoute(h.sessions, h.log, h.signUp))
		r.Get("/signout", formRoute(h.sessions, h.log, h.signOut))

		r.Group(func(r chi.Router) {
			r.Use(h.sessions.RequireAdmin)
			r.Put("/", formRoute(h.sessions, h.log, h.update))
			r.Put("/password", formRoute(h.sessions, h.log, h.changePassword))
		})

		// API
		r.Get("/", apiRoute(h.read))
		r.Post("/rating", apiRoute(h.rate))
	})
}

func (h *AdminHandler) signUp(r *http.Request, _ session.Actor) Outcome {
	if upload.Failed(r) {
		return redirect("/signup", session.KeyAdmin, msgSignUpErr)
	}
	pirt, okPirt := upload.Path(r, "pirt")
	halal, okHalal := upload.Path(r, "halal")
	if !okPirt || !okHalal {
		h.log.Info("incorrect certificate format")
		return redirect("/signup", session.KeyAdmin, msgCertificateFormat)
	}

	var in service.SignUpInput
	if err := bind(r, &in); err != nil {
		h.log.Info("unreadable sign up form", zap.Error(err))
		return redirect("/signup", session.KeyAdmin, msgSignUpInvalid)
	}

	a, err := h.svc.SignUp(r.Context(), in, pirt, halal)
	switch {
	case errors.Is(err, service.ErrValidation):
		h.log.Info("invalid sign up", zap.Error(err))
		return redirect("/signup", session.KeyAdmin, msgSignUpInvalid)
	case errors.Is(err, service.ErrDuplicate):
		h.log.Info("admin already registered", zap.Error(err))
		return redirect("/signup", session.KeyAdmin, msgSignUpDuplicate)
	case err != nil:
		h.log.Error("admin sign up error", zap.Error(err))
		return redirect("/signup", session.KeyAdmin, msgSignUpErr)
	}

	h.log.Info("new admin registered", zap.String("adminId", a.ID))
	return redirect("/signin", session.KeyAdmin, msgSignUpSuccess)
}

func (h *AdminHandler) signIn(r *http.Request, actor session.Actor) Outcome {
	var in service.SignInInput
	if err := bind(r, &in); err != nil {
		return redirect("/signin", session.KeyAdmin, msgSignInInvalid)
	}

	a, err := h.svc.SignIn(r.Context(), in)
	switch {
	case errors.Is(err, service.ErrCredentials):
		h.log.Info("admin sign in rejected", zap.String("email", in.Email))
		return redirect("/signin", session.KeyAdmin, msgSignInInvalid)
	case errors.Is(err, service.ErrInactive):
		h.log.Info("inactive admin sign in", zap.String("email", in.Email))
		return redirect("/signin", session.KeyAdmin, msgSignInInactive)
	case err != nil:
		h.log.Error("admin sign in error", zap.Error(err))
		return redirect("/signin", session.KeyAdmin, msgSignInErr)
	}

	next := actor
	next.Admin = &session.Identity{ID: a.ID, Name: a.Name}
	h.log.Info("admin signed in", zap.String("adminId", a.ID))
	out := redirect("/", session.KeyAdmin, msgSignInSuccess)
	out.Session = &next
	return out
}

func (h *AdminHandler) signOut(r *http.Request, actor session.Actor) Outcome {
	next := actor
	next.Admin = nil
	out := redirect("/signin", session.KeyAdmin, msgSignOut)
	out.Session = &next
	return out
}

// update edits the signed-in admin's own profile, or toggles the shop's
// open status under ?updateStatus.
func (h *AdminHandler) update(r *http.Request, actor session.Actor) Outcome {
	var in service.AdminUpdateInput
	if err := bind(r, &in); err != nil {
		h.log.Info("unreadable admin form", zap.Error(err))
		return redirect("/", session.KeyAdmin, msgAdminUpdateErr)
	}

	if r.URL.Query().Get("updateStatus") != "" {
		open, err := h.svc.ToggleOpen(r.Context(), actor.Admin.ID, in.IsOpen)
		switch {
		case errors.Is(err, service.ErrNotFound):
			return redirect("/", session.KeyAdmin, msgAdminNotFound)
		case err != nil:
			h.log.Error("update admin status error", zap.Error(err))
			return redirect("/", session.KeyAdmin, msgAdminUpdateErr)
		}
		h.log.Info("admin status updated", zap.String("adminId", actor.Admin.ID), zap.Bool("isOpen", open))
		return redirect("/", session.KeyAdmin, msgStatusUpdated)
	}

	err := h.svc.UpdateProfile(r.Context(), actor.Admin.ID, in)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return redirect("/", session.KeyAdmin, msgAdminNotFound)
	case errors.Is(err, service.ErrDuplicate):
		return redirect("/", session.KeyAdmin, msgAdminDuplicate)
	case err != nil:
		h.log.Error("update admin error", zap.Error(err))
		return redirect("/", session.KeyAdmin, msgAdminUpdateErr)
	}

	h.log.Info("admin profile updated", zap.String("adminId", actor.Admin.ID))
	out := redirect("/", session.KeyAdmin, msgAdminUpdated)
	if in.Name != "" && in.Name != actor.Admin.Name {
		next := actor
		next.Admin = &session.Identity{ID: actor.Admin.ID, Name: in.Name}
		out.Session = &next
	}
	return out
}

func (h *AdminHandler) changePassword(r *http.Request, actor session.Actor) Outcome {
	var in service.PasswordInput
	if err := bind(r, &in); err != nil {
		return redirect("/", session.KeyAdmin, msgPasswordInvalid)
	}

	err := h.svc.ChangePassword(r.Context(), actor.Admin.ID, in)
	switch {
	case errors.Is(err, service.ErrValidation):
		return redirect("/", session.KeyAdmin, msgPasswordInvalid)
	case errors.Is(err, service.ErrCredentials):
		return redirect("/", session.KeyAdmin, msgPasswordWrong)
	case errors.Is(err, service.ErrNotFound):
		return redirect("/", session.KeyAdmin, msgAdminNotFound)
	case err != nil:
		h.log.Error("change password error", zap.Error(err))
		return redirect("/", session.KeyAdmin, msgAdminUpdateErr)
	}

	h.log.Info("admin password changed", zap.String("adminId", actor.Admin.ID))
	return redirect("/", session.KeyAdmin, msgPasswordChanged)
}

func (h *AdminHandler) read(r *http.Request, _ session.Actor) Reply {
	q := r.URL.Query()
	admins, err := h.svc.Read(r.Context(), service.AdminQuery{
		AdminID: q.Get("adminId"),
		Search:  q.Get("search"),
	})
	if err != nil {
		h.log.Error("get admin error", zap.Error(err))
		return fail(http.StatusInternalServerError, "GetAdminError", msgGetAdminErr)
	}
	return ok("admin", admins)
}

func (h *AdminHandler) rate(r *http.Request, _ session.Actor) Reply {
	var in struct {
		AdminID string  `json:"adminId"`
		Rating  float64 `json:"rating"`
	}
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		return fail(http.StatusBadRequest, "ValidationError", "Invalid request body.")
	}

	a, err := h.svc.Rate(r.Context(), in.AdminID, in.Rating)
	switch {
	case errors.Is(err, service.ErrValidation):
		return fail(http.StatusBadRequest, "ValidationError", "Rating must be between 1 and 5.")
	case errors.Is(err, service.ErrNotFound):
		return fail(http.StatusNotFound, "NotFound", "Admin not found.")
	case err != nil:
		h.log.Error("rate admin error", zap.Error(err))
		return fail(http.StatusInternalServerError, "RateAdminError", "Something went wrong while rating admin, please try again.")
	}
	return ok("admin", a)
}
