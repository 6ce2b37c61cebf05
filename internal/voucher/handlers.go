package voucher

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/richardprab/auroramart/internal/common"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/pricing"
)

// Handler exposes voucher preview and administrative endpoints.
type Handler struct {
	Svc *Service
}

type previewRequest struct {
	Code     string        `json:"code" validate:"required,max=40"`
	Subtotal pricing.Money `json:"subtotal" validate:"gte=0"`
}

// View is the public representation of a voucher.
type View struct {
	ID                 string        `json:"id"`
	Code               string        `json:"code"`
	Name               string        `json:"name"`
	Description        *string       `json:"description,omitempty"`
	DiscountType       string        `json:"discount_type"`
	DiscountValue      pricing.Money `json:"discount_value"`
	MaxDiscount        *int64        `json:"max_discount,omitempty"`
	MinSpend           pricing.Money `json:"min_spend"`
	ValidFrom          any           `json:"valid_from"`
	ValidUntil         any           `json:"valid_until"`
	MaxUses            *int32        `json:"max_uses,omitempty"`
	MaxUsesPerCustomer *int32        `json:"max_uses_per_customer,omitempty"`
	UsedCount          int32         `json:"used_count"`
	CustomerID         *string       `json:"customer_id,omitempty"`
	IsActive           bool          `json:"is_active"`
	FirstTimeOnly      bool          `json:"first_time_only"`
	ExcludeSaleItems   bool          `json:"exclude_sale_items"`
	Products           []string      `json:"applicable_products,omitempty"`
	Categories         []string      `json:"applicable_categories,omitempty"`
}

// ToView renders a voucher row for API responses.
func ToView(v dbgen.Voucher) View {
	return View{
		ID:                 common.UUIDString(v.ID),
		Code:               v.Code,
		Name:               v.Name,
		Description:        common.TextPtr(v.Description),
		DiscountType:       string(v.DiscountType),
		DiscountValue:      v.DiscountValue,
		MaxDiscount:        common.Int8Ptr(v.MaxDiscount),
		MinSpend:           v.MinSpend,
		ValidFrom:          common.TimePtr(v.ValidFrom),
		ValidUntil:         common.TimePtr(v.ValidUntil),
		MaxUses:            common.Int4Ptr(v.MaxUses),
		MaxUsesPerCustomer: common.Int4Ptr(v.MaxUsesPerCustomer),
		UsedCount:          v.UsedCount,
		CustomerID:         common.UUIDPtr(v.CustomerID),
		IsActive:           v.IsActive,
		FirstTimeOnly:      v.FirstTimeOnly,
		ExcludeSaleItems:   v.ExcludeSaleItems,
		Products:           idStrings(v.ApplicableProductIds),
		Categories:         idStrings(v.ApplicableCategoryIds),
	}
}

func idStrings(ids []pgtype.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, common.UUIDString(id))
	}
	return out
}

// Preview returns the simulated discount for a voucher without persisting state.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	var req previewRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	result, err := h.Svc.Preview(r.Context(), req.Code, customerID, req.Subtotal)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, result)
}

// Create inserts a new voucher rule.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	v, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusCreated, ToView(v))
}

// Update mutates an existing voucher identified by code.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	v, err := h.Svc.Update(r.Context(), chi.URLParam(r, "code"), in)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, ToView(v))
}

// Deactivate disables a voucher.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Deactivate(r.Context(), chi.URLParam(r, "code")); err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MapError translates voucher errors into API errors.
func MapError(err error) *common.AppError {
	switch {
	case errors.Is(err, ErrInvalidVoucher):
		return common.NewAppError("INVALID_VOUCHER", "voucher cannot be applied", http.StatusUnprocessableEntity, err).
			WithDetails(map[string]string{"reason": Reason(err)})
	case errors.Is(err, ErrNotFound):
		return common.NotFound("voucher not found", err)
	case errors.Is(err, ErrDuplicateCode):
		return common.NewAppError("CONFLICT", "voucher code already exists", http.StatusConflict, err)
	case errors.Is(err, ErrInvalidInput):
		return common.BadRequest(err.Error(), err)
	}
	return nil
}
