package common

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const identityKey ctxKey = "auth/identity"

// Identity is the verified caller attached to a request context.
type Identity struct {
	CustomerID uuid.UUID
	Roles      []string
}

// HasRole reports whether the identity carries the role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// WithIdentity stores the authenticated identity on the provided context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom extracts the authenticated identity from the context if present.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey).(Identity)
	if !ok || v.CustomerID == uuid.Nil {
		return Identity{}, false
	}
	return v, true
}

// CustomerID returns the authenticated customer identifier.
func CustomerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return id.CustomerID, true
}
