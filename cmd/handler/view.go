package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/valenoirs/backoffice/cmd/session"
	"go.uber.org/zap"
)

// ViewHandler stands in for the rendered dashboard: it reports who is
// signed in and hands out the queued flash messages exactly once.
type ViewHandler struct {
	sessions *session.Manager
	log      *zap.Logger
}

func NewViewHandler(sm *session.Manager, log *zap.Logger) *ViewHandler {
	return &ViewHandler{sessions: sm, log: log.Named("server")}
}

// RegisterRoutes must run before the other handlers register so that their
// sub-routers inherit the not-found handler.
func (h *ViewHandler) RegisterRoutes(r chi.Router) {
	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.notFound)
	r.Get("/", h.dashboard)
	r.Get("/ping", h.ping)
}

func (h *ViewHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	actor := session.FromContext(r.Context())
	writeReply(w, r, Reply{
		Status: http.StatusOK,
		Key:    "page",
		Data: map[string]interface{}{
			"admin": actor.Admin,
			"root":  actor.Root,
			"flash": h.sessions.ConsumeFlash(w, r),
		},
	})
}

func (h *ViewHandler) ping(w http.ResponseWriter, r *http.Request) {
	h.log.Info("pinging the server", zap.String("host", r.Host))
	writeReply(w, r, ok("message", "valenoirs"))
}

func (h *ViewHandler) notFound(w http.ResponseWriter, r *http.Request) {
	writeReply(w, r, fail(http.StatusNotFound, "NotFound", "No API endpoint found."))
}

