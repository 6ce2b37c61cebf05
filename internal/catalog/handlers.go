package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/richardprab/auroramart/internal/common"
)

// Handler exposes public catalog endpoints and the admin stock/price updates.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

type stockRequest struct {
	Stock *int `json:"stock" validate:"required,gte=0"`
}

type priceRequest struct {
	Price        *int64 `json:"price" validate:"required,gte=0"`
	ComparePrice *int64 `json:"compare_price" validate:"omitempty,gte=0"`
}

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	result, err := h.service.ListProducts(r.Context(), page, perPage)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(result.Meta.TotalItems))
	common.JSON(w, http.StatusOK, map[string]any{"data": result.Items, "pagination": result.Meta})
}

// ProductDetail handles GET /api/v1/products/{slug}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, view)
}

// Variant handles GET /api/v1/variants/{id}.
func (h *Handler) Variant(w http.ResponseWriter, r *http.Request) {
	id, ok := variantParam(w, r)
	if !ok {
		return
	}
	view, err := h.service.GetVariant(r.Context(), id)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, view)
}

// SetStock handles PATCH /api/v1/admin/variants/{id}/stock.
func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := variantParam(w, r)
	if !ok {
		return
	}
	var req stockRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	view, err := h.service.SetStock(r.Context(), id, *req.Stock)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, view)
}

// SetPrice handles PATCH /api/v1/admin/variants/{id}/price.
func (h *Handler) SetPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := variantParam(w, r)
	if !ok {
		return
	}
	var req priceRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	view, err := h.service.SetPrice(r.Context(), id, *req.Price, req.ComparePrice)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, view)
}

func variantParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid variant id", err))
		return uuid.Nil, false
	}
	return id, true
}

// MapError translates catalog errors.
func MapError(err error) *common.AppError {
	switch {
	case errors.Is(err, ErrNotFound):
		return common.NotFound("catalog item not found", err)
	case errors.Is(err, ErrInvalidInput):
		return common.BadRequest(err.Error(), err)
	}
	return nil
}
