package address

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	list, err := h.Svc.List(r.Context(), customerID)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	addressID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid address id", err))
		return
	}
	addr, err := h.Svc.Get(r.Context(), customerID, addressID)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, addr)
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
	addr, err := h.Svc.Create(r.Context(), customerID, in)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusCreated, addr)
}

func MapError(err error) *common.AppError {
	if errors.Is(err, ErrNotFound) {
		return common.NotFound("address not found", err)
	}
	return nil
}
