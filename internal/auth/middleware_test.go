package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/richardprab/auroramart/internal/common"
)

func newTestVerifier() *Verifier {
	v := NewVerifier("super-secret", "auroramart", "storefront")
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	v.Now = func() time.Time { return fixed }
	return v
}

func TestVerifierRoundTrip(t *testing.T) {
	v := newTestVerifier()
	customer := uuid.New()
	token, err := v.Issue(customer, []string{RoleAdmin}, time.Hour)
	require.NoError(t, err)

	id, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, customer, id.CustomerID)
	require.True(t, id.HasRole(RoleAdmin))
}

func TestVerifierRejectsForeignSecret(t *testing.T) {
	v := newTestVerifier()
	other := NewVerifier("another-secret", "auroramart", "storefront")
	other.Now = v.Now
	token, err := other.Issue(uuid.New(), nil, time.Hour)
	require.NoError(t, err)

	_, err = v.Verify(token)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
}

func TestRequireAuthAndRole(t *testing.T) {
	v := newTestVerifier()
	mw := Middleware{Verifier: v}
	handler := mw.RequireAuth(RequireRole(RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	call := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/admin/vouchers", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusUnauthorized, call(""))
	require.Equal(t, http.StatusUnauthorized, call("garbage"))

	customerToken, err := v.Issue(uuid.New(), nil, time.Hour)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, call(customerToken))

	adminToken, err := v.Issue(uuid.New(), []string{RoleAdmin}, time.Hour)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, call(adminToken))
}

func TestAuthenticateIsOptional(t *testing.T) {
	mw := Middleware{Verifier: newTestVerifier()}
	var seen bool
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, seen = common.IdentityFrom(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.False(t, seen)
}
