package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/richardprab/auroramart/internal/common"
)

type Handler struct {
	Svc *Service
}

type patchStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	res, err := h.Svc.List(r.Context(), customerID, page, perPage)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": res.Items, "pagination": res.Meta})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	orderID, ok := orderParam(w, r)
	if !ok {
		return
	}
	view, err := h.Svc.Get(r.Context(), customerID, orderID)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, view)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	orderID, ok := orderParam(w, r)
	if !ok {
		return
	}
	view, err := h.Svc.Cancel(r.Context(), customerID, orderID)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, view)
}

// PatchStatus updates the order status with state-machine validation.
func (h *Handler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderParam(w, r)
	if !ok {
		return
	}
	var req patchStatusRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	to, err := ParseStatus(req.Status)
	if err != nil {
		common.WriteError(w, common.BadRequest("unsupported status", err))
		return
	}
	view, err := h.Svc.SetStatus(r.Context(), orderID, to)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, view)
}

func orderParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid order id", err))
		return uuid.Nil, false
	}
	return id, true
}

func MapError(err error) *common.AppError {
	switch {
	case errors.Is(err, ErrNotFound):
		return common.NotFound("order not found", err)
	case errors.Is(err, ErrInvalidTransition):
		return common.NewAppError("INVALID_TRANSITION", err.Error(), http.StatusConflict, err)
	}
	return nil
}
