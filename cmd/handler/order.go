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

const (
	msgOrderUpdated  = "Status pesanan berhasil diperbarui."
	msgOrderNotFound = "Pesanan tidak ditemukan."
	msgOrderInvalid  = "Status pesanan tidak valid."
	msgOrderErr      = "Terjadi kesalahan saat mengubah pesanan, coba lagi."
)

type OrderHandler struct {
	svc      service.OrderService
	sessions *session.Manager
	log      *zap.Logger
}

func NewOrderHandler(s service.OrderService, sm *session.Manager, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: s, sessions: sm, log: log.Named("order")}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/order", func(r chi.Router) {
		r.Post("/", apiRoute(h.create))
		r.Get("/", apiRoute(h.read))
		r.Delete("/", apiRoute(h.cancel))
	})
	r.With(h.sessions.RequireAdmin).Put("/order", formRoute(h.sessions, h.log, h.updateStatus))
}

func (h *OrderHandler) create(r *http.Request, _ session.Actor) Reply {
	var in service.OrderInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		return errBadBody
	}
	o, err := h.svc.Create(r.Context(), in)
	switch {
	case errors.Is(err, service.ErrValidation):
		return fail(http.StatusBadRequest, "ValidationError", "Order must name a user, a shop and at least one product.")
	case errors.Is(err, service.ErrNotFound):
		return fail(http.StatusNotFound, "NotFound", "User not found.")
	case err != nil:
		h.log.Error("create order error", zap.Error(err))
		return fail(http.StatusInternalServerError, "CreateOrderError", "Something went wrong while creating order, please try again.")
	}
	h.log.Info("new order created", zap.String("orderId", o.ID), zap.String("adminId", o.AdminID))
	return ok("order", o)
}

func (h *OrderHandler) read(r *http.Request, _ session.Actor) Reply {
	q := r.URL.Query()
	orders, err := h.svc.Read(r.Context(), service.OrderQuery{
		UserID:  q.Get("userId"),
		AdminID: q.Get("adminId"),
	})
	if err != nil {
		h.log.Error("get order error", zap.Error(err))
		return fail(http.StatusInternalServerError, "GetOrderError", "Something went wrong while getting order data, please try again.")
	}
	return ok("order", orders)
}

func (h *OrderHandler) cancel(r *http.Request, _ session.Actor) Reply {
	var in struct {
		OrderID string `json:"orderId"`
	}
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		return errBadBody
	}
	err := h.svc.Cancel(r.Context(), in.OrderID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(http.StatusNotFound, "NotFound", "Order not found.")
	case errors.Is(err, service.ErrValidation):
		return fail(http.StatusBadRequest, "ValidationError", "Only pending orders can be cancelled.")
	case err != nil:
		h.log.Error("cancel order error", zap.Error(err))
		return fail(http.StatusInternalServerError, "CancelOrderError", "Something went wrong while cancelling order, please try again.")
	}
	return ok("message", "Order cancelled.")
}

func (h *OrderHandler) updateStatus(r *http.Request, _ session.Actor) Outcome {
	var in service.OrderStatusInput
	if err := bind(r, &in); err != nil {
		return redirect("/", session.KeyOrder, msgOrderInvalid)
	}
	err := h.svc.UpdateStatus(r.Context(), in)
	switch {
	case errors.Is(err, service.ErrValidation):
		return redirect("/", session.KeyOrder, msgOrderInvalid)
	case errors.Is(err, service.ErrNotFound):
		return redirect("/", session.KeyOrder, msgOrderNotFound)
	case err != nil:
		h.log.Error("update order status error", zap.Error(err))
		return redirect("/", session.KeyOrder, msgOrderErr)
	}
	h.log.Info("order status updated", zap.String("orderId", in.OrderID), zap.String("status", in.Status))
	return redirect("/", session.KeyOrder, msgOrderUpdated)
}
