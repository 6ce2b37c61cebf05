package notify

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/richardprab/auroramart/internal/common"
)

type Handler struct {
	Svc *Service
}

// List handles GET /me/notifications?unread=true&page=1&limit=20.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	items, err := h.Svc.List(r.Context(), customerID, unread, page, perPage)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, items)
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	n, err := h.Svc.UnreadCount(r.Context(), customerID)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, map[string]int64{"unread": n})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("invalid notification id", err))
		return
	}
	if err := h.Svc.MarkRead(r.Context(), customerID, id); err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	n, err := h.Svc.MarkAllRead(r.Context(), customerID)
	if err != nil {
		common.WriteError(w, err, MapError)
		return
	}
	common.Data(w, http.StatusOK, map[string]int64{"updated": n})
}

func MapError(err error) *common.AppError {
	switch {
	case errors.Is(err, ErrNotFound):
		return common.NotFound("notification not found", err)
	case errors.Is(err, ErrInvalidKind):
		return common.BadRequest(err.Error(), err)
	}
	return nil
}
