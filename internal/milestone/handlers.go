package milestone

import (
	"net/http"

	"github.com/richardprab/auroramart/internal/common"
)

type Handler struct {
	Svc *Service
}

// Progress serves GET /me/milestones. Viewing progress also issues any
// reward the customer is owed.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	p, rewards, err := h.Svc.Evaluate(r.Context(), customerID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if rewards == nil {
		rewards = []Reward{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": p, "newRewards": rewards})
}

func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	customerID, ok := common.CustomerID(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthorized())
		return
	}
	list, err := h.Svc.All(r.Context(), customerID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, list)
}
