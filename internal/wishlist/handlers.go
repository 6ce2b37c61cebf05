package wishlist

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/richardprab/auroramart/internal/catalog"
	"github.com/richardprab/auroramart/internal/common"
)

type Handler struct {
	Svc *Service
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	items, err := h.Svc.List(r.Context(), customerID)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, items)
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	customerID, target, ok := decodeTarget(w, r)
	if !ok {
		return
	}
	item, err := h.Svc.Add(r.Context(), customerID, target)
	if err != nil {
		common.WriteError(w, err, MapError, catalog.MapError)
		return
	}
	common.Data(w, http.StatusCreated, item)
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	customerID, target, ok := decodeTarget(w, r)
	if !ok {
		return
	}
	saved, item, err := h.Svc.Toggle(r.Context(), customerID, target)
	if err != nil {
		common.WriteError(w, err, MapError, catalog.MapError)
		return
	}
	common.Data(w, http.StatusOK, map[string]any{"saved": saved, "item": item})
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid wishlist item id", err))
		return
	}
	if err := h.Svc.Remove(r.Context(), customerID, itemID); err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeTarget(w http.ResponseWriter, r *http.Request) (uuid.UUID, Target, bool) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return uuid.Nil, nil, false
	}
	var req TargetRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return uuid.Nil, nil, false
	}
	target, err := req.Decode()
	if err != nil {
		common.WriteError(w, err, MapError)
		return uuid.Nil, nil, false
	}
	return customerID, target, true
}

func MapError(err error) *common.AppError {
	switch {
	case errors.Is(err, ErrNotFound):
		return common.NotFound("wishlist item not found", err)
	case errors.Is(err, ErrInvalidTarget):
		return common.BadRequest("unknown wishlist target", err)
	}
	return nil
}
