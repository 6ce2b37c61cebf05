package cart

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/voucher"
)

// DefaultSessionHeader carries the guest cart key.
const DefaultSessionHeader = "X-Cart-Session"

// Handler wires cart services to HTTP.
type Handler struct {
	Svc           *Service
	SessionHeader string
}

type addItemRequest struct {
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

type voucherRequest struct {
	Code string `json:"code" validate:"required,max=40"`
}

// Get returns cart contents and pricing preview.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK)
}

// AddItem adds or increments a cart line item.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	variantID, _ := uuid.Parse(req.VariantID)
	if err := h.Svc.AddItem(r.Context(), h.owner(r), variantID, req.Quantity); err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	h.respond(w, r, http.StatusCreated)
}

// UpdateItem changes a line's quantity.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemParam(w, r)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Svc.UpdateQuantity(r.Context(), h.owner(r), itemID, req.Quantity); err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	h.respond(w, r, http.StatusOK)
}

// RemoveItem deletes a line.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemParam(w, r)
	if !ok {
		return
	}
	if err := h.Svc.RemoveItem(r.Context(), h.owner(r), itemID); err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	h.respond(w, r, http.StatusOK)
}

// Clear empties the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Clear(r.Context(), h.owner(r)); err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	h.respond(w, r, http.StatusOK)
}

// ApplyVoucher attaches a voucher after validating it against the cart.
func (h *Handler) ApplyVoucher(w http.ResponseWriter, r *http.Request) {
	var req voucherRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if _, err := h.Svc.ApplyVoucher(r.Context(), h.owner(r), req.Code); err != nil {
		common.WriteError(w, err, MapError, voucher.MapError)
		return
	}
	h.respond(w, r, http.StatusOK)
}

// RemoveVoucher detaches the voucher.
func (h *Handler) RemoveVoucher(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.RemoveVoucher(r.Context(), h.owner(r)); err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	h.respond(w, r, http.StatusOK)
}

// Merge folds the guest cart named by the session header into the caller's cart.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	if err := h.Svc.Merge(r.Context(), r.Header.Get(h.header()), customerID); err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	h.respond(w, r, http.StatusOK)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int) {
	view, err := h.Svc.View(r.Context(), h.owner(r))
	if err != nil {
		common.WriteError(w, err, MapError, voucher.MapError)
		return
	}
	common.Data(w, status, view)
}

func (h *Handler) owner(r *http.Request) Owner {
	return OwnerFromRequest(r, h.header())
}

func (h *Handler) header() string {
	if h.SessionHeader == "" {
		return DefaultSessionHeader
	}
	return h.SessionHeader
}

func itemParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid item id", err))
		return uuid.Nil, false
	}
	return id, true
}

// MapError translates cart errors into API errors.
func MapError(err error) *common.AppError {
	var stockErr *StockError
	switch {
	case errors.As(err, &stockErr):
		return common.NewAppError("INSUFFICIENT_STOCK", "insufficient stock", http.StatusConflict, err).
			WithDetails(map[string]any{"lines": stockErr.Lines})
	case errors.Is(err, ErrInsufficientStock):
		return common.NewAppError("INSUFFICIENT_STOCK", "insufficient stock", http.StatusConflict, err)
	case errors.Is(err, ErrEmptyCart):
		return common.NewAppError("EMPTY_CART", "cart is empty", http.StatusUnprocessableEntity, err)
	case errors.Is(err, ErrNoOwner):
		return common.BadRequest("cart session or authentication required", err)
	case errors.Is(err, ErrInvalidQuantity):
		return common.BadRequest(err.Error(), err)
	case errors.Is(err, ErrNotFound):
		return common.NotFound("cart item not found", err)
	case errors.Is(err, ErrVariantNotFound):
		return common.NotFound("variant not found", err)
	case errors.Is(err, ErrVariantUnavailable):
		return common.NewAppError("VARIANT_UNAVAILABLE", "variant is not available", http.StatusConflict, err)
	}
	return nil
}
