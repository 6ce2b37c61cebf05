package cart

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/richardprab/auroramart/internal/common"
)

// Owner identifies a cart by customer or, for guests, by session key.
type Owner struct {
	CustomerID uuid.UUID
	SessionKey string
}

// IsCustomer reports whether the cart belongs to an authenticated customer.
func (o Owner) IsCustomer() bool { return o.CustomerID != uuid.Nil }

// Valid reports whether the owner identifies a cart at all.
func (o Owner) Valid() bool { return o.IsCustomer() || strings.TrimSpace(o.SessionKey) != "" }

// OwnerFromRequest prefers the authenticated identity over the session header.
func OwnerFromRequest(r *http.Request, sessionHeader string) Owner {
	if id, ok := common.CustomerID(r.Context()); ok {
		return Owner{CustomerID: id}
	}
	return Owner{SessionKey: strings.TrimSpace(r.Header.Get(sessionHeader))}
}
