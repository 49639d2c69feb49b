package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/valenoirs/backoffice/cmd/service"
	"github.com/valenoirs/backoffice/cmd/session"
	"github.com/valenoirs/backoffice/cmd/upload"
	"go.uber.org/zap"
)

const (
	msgImageFormat      = "Format gambar tidak sesuai."
	msgProductInvalid   = "Data produk tidak valid."
	msgProductCreated   = "Product baru berhasil ditambahkan."
	msgProductCreateErr = "Terjadi kesalahan saat menambahkan product, coba lagi."
	msgStockUpdated     = "Ketersediaan produk berhasil diperbarui."
	msgProductNotFound  = "Product yang ingin diubah tidak ditemukan."
	msgProductUpdated   = "Informasi produk berhasil diperbarui."
	msgProductUpdateErr = "Terjadi kesalahan saat mengubah product, coba lagi."
	msgDeleteNotFound   = "Product yang ingin dihapus tidak ditemukan."
	msgProductDeleted   = "Product berhasil dihapus."
	msgProductDeleteErr = "Terjadi kesalahan saat menghapus product, coba lagi."
	msgGetProductErr    = "Something went wrong while getting product data, please try again."
)

// ProductHandler serves the dashboard product forms and the product API.
type ProductHandler struct {
	svc      service.ProductService
	sessions *session.Manager
	log      *zap.Logger
	uploads  func(http.Handler) http.Handler
}

func NewProductHandler(s service.ProductService, sm *session.Manager, log *zap.Logger, uploadDir string) *ProductHandler {
	named := log.Named("product")
	return &ProductHandler{
		svc:      s,
		sessions: sm,
		log:      named,
		uploads: upload.Gate(named, uploadDir, "product", upload.Field{Name: "image", Exts: upload.Image}),
	}
}

func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/product", func(r chi.Router) {
		r.Get("/", apiRoute(h.read))

		r.Group(func(r chi.Router) {
			r.Use(h.sessions.RequireAdmin)
			r.With(h.uploads).Post("/", formRoute(h.sessions, h.log, h.create))
			r.With(h.uploads).Put("/", formRoute(h.sessions, h.log, h.update))
			r.Delete("/", formRoute(h.sessions, h.log, h.delete))
		})
	})
}

func (h *ProductHandler) create(r *http.Request, actor session.Actor) Outcome {
	if upload.Failed(r) {
		return redirect("/", session.KeyProduct, msgProductCreateErr)
	}
	picture, ok := upload.Path(r, "image")
	if !ok {
		h.log.Info("incorrect image format")
		return redirect("/", session.KeyProduct, msgImageFormat)
	}

	var in service.ProductInput
	if err := bind(r, &in); err != nil {
		h.log.Info("unreadable product form", zap.Error(err))
		return redirect("/", session.KeyProduct, msgProductInvalid)
	}

	p, err := h.svc.Create(r.Context(), actor.Admin.ID, actor.Admin.Name, in, picture)
	switch {
	case errors.Is(err, service.ErrValidation):
		h.log.Info("invalid product", zap.Error(err))
		return redirect("/", session.KeyProduct, msgProductInvalid)
	case err != nil:
		h.log.Error("add new product error", zap.Error(err))
		return redirect("/", session.KeyProduct, msgProductCreateErr)
	}

	h.log.Info("new product added", zap.String("productId", p.ID), zap.String("adminId", p.AdminID))
	return redirect("/", session.KeyProduct, msgProductCreated)
}

// update handles both the stock toggle (?updateStock) and the information
// form. The acting admin is not checked against the product owner.
func (h *ProductHandler) update(r *http.Request, actor session.Actor) Outcome {
	var in service.ProductInput
	if err := bind(r, &in); err != nil {
		h.log.Info("unreadable product form", zap.Error(err))
		return redirect("/", session.KeyProduct, msgProductInvalid)
	}

	if r.URL.Query().Get("updateStock") != "" {
		available, err := h.svc.ToggleStock(r.Context(), in.ProductID, in.Available)
		switch {
		case errors.Is(err, service.ErrNotFound):
			h.log.Info("product not found", zap.String("productId", in.ProductID))
			return redirect("/", session.KeyProduct, msgProductNotFound)
		case err != nil:
			h.log.Error("update product stock error", zap.Error(err))
			return redirect("/", session.KeyProduct, msgProductUpdateErr)
		}
		h.log.Info("product stock updated", zap.String("productId", in.ProductID), zap.Bool("available", available))
		return redirect("/", session.KeyProduct, msgStockUpdated)
	}

	if upload.Failed(r) {
		return redirect("/", session.KeyProduct, msgProductUpdateErr)
	}
	picture, _ := upload.Path(r, "image")
	err := h.svc.Update(r.Context(), in, picture)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.log.Info("product not found", zap.String("productId", in.ProductID))
		return redirect("/", session.KeyProduct, msgProductNotFound)
	case errors.Is(err, service.ErrValidation):
		h.log.Info("invalid product", zap.Error(err))
		return redirect("/", session.KeyProduct, msgProductInvalid)
	case err != nil:
		h.log.Error("update product error", zap.Error(err))
		return redirect("/", session.KeyProduct, msgProductUpdateErr)
	}

	h.log.Info("product information updated", zap.String("productId", in.ProductID))
	return redirect("/", session.KeyProduct, msgProductUpdated)
}

func (h *ProductHandler) delete(r *http.Request, actor session.Actor) Outcome {
	var in service.ProductInput
	if err := bind(r, &in); err != nil {
		h.log.Info("unreadable product form", zap.Error(err))
		return redirect("/", session.KeyProduct, msgDeleteNotFound)
	}

	err := h.svc.Delete(r.Context(), in.ProductID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.log.Info("product not found", zap.String("productId", in.ProductID))
		return redirect("/", session.KeyProduct, msgDeleteNotFound)
	case err != nil:
		h.log.Error("delete product error", zap.Error(err))
		return redirect("/", session.KeyProduct, msgProductDeleteErr)
	}

	h.log.Info("product deleted", zap.String("productId", in.ProductID))
	return redirect("/", session.KeyProduct, msgProductDeleted)
}

// read answers GET /product. adminId narrows to one owner, search matches
// the name; search wins when both are given.
func (h *ProductHandler) read(r *http.Request, _ session.Actor) Reply {
	q := r.URL.Query()
	products, err := h.svc.Read(r.Context(), service.ProductQuery{
		AdminID: q.Get("adminId"),
		Search:  q.Get("search"),
	})
	if err != nil {
		h.log.Error("get product error", zap.Error(err))
		return fail(http.StatusInternalServerError, "GetProductError", msgGetProductErr)
	}
	return ok("product", products)
}
