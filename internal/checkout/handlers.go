package checkout

import (
	"errors"
	"net/http"

	"github.com/richardprab/auroramart/internal/cart"
	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/voucher"
)

// Handler exposes POST /checkout. Idempotency and rate limiting are applied
// as middleware by the router.
type Handler struct {
	Svc *Service
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	var in Input
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	in.CustomerID = customerID
	view, err := h.Svc.CreateOrder(r.Context(), in)
	if err != nil {
		common.WriteError(w, err, MapError, cart.MapError, voucher.MapError)
		return
	}
	common.Data(w, http.StatusCreated, view)
}

// MapError translates checkout-specific errors.
func MapError(err error) *common.AppError {
	switch {
	case errors.Is(err, ErrTransactionConflict):
		return common.NewAppError("TRANSACTION_CONFLICT", "checkout conflicted with a concurrent request, retry", http.StatusConflict, err).
			WithDetails(map[string]any{"retryable": true})
	case errors.Is(err, ErrAddressNotFound):
		return common.NotFound("address not found", err)
	}
	return nil
}
