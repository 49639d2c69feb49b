package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/valenoirs/backoffice/cmd/internal/env"
	"github.com/valenoirs/backoffice/cmd/middleware"
	"github.com/valenoirs/backoffice/cmd/session"
	"go.uber.org/zap"
)

// Registrar mounts a controller's routes.
type Registrar interface {
	RegisterRoutes(r chi.Router)
}

// NewRouter builds the root router. Registrars are mounted in order.
func NewRouter(cfg *env.Env, log *zap.Logger, sessions *session.Manager, registrars ...Registrar) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.RecoverPanic(log))
	r.Use(middleware.CORSmiddleware(cfg))
	r.Use(middleware.MethodOverride)
	r.Use(sessions.Load)

	for _, reg := range registrars {
		reg.RegisterRoutes(r)
	}
	return r
}
