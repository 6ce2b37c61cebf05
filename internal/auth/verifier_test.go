package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/richardprab/auroramart/internal/common"
)

func TestVerifierClaims(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	customer := uuid.New()
	cases := []struct {
		name    string
		mint    func(*Verifier) *Verifier
		ttl     time.Duration
		at      time.Time
		wantErr bool
	}{
		{name: "valid", ttl: time.Minute, at: now},
		{name: "within skew after expiry", ttl: time.Minute, at: now.Add(time.Minute + 10*time.Second)},
		{name: "expired", ttl: time.Minute, at: now.Add(2 * time.Minute), wantErr: true},
		{name: "not yet valid", ttl: time.Hour, at: now.Add(-5 * time.Minute), wantErr: true},
		{name: "issuer mismatch", ttl: time.Minute, at: now, wantErr: true, mint: func(v *Verifier) *Verifier {
			v.Issuer = "someone-else"
			return v
		}},
		{name: "audience mismatch", ttl: time.Minute, at: now, wantErr: true, mint: func(v *Verifier) *Verifier {
			v.Audience = "backoffice"
			return v
		}},
		{name: "algorithm mismatch", ttl: time.Minute, at: now, wantErr: true, mint: func(v *Verifier) *Verifier {
			v.Algorithm = jwa.HS512
			return v
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			minter := NewVerifier("super-secret", "auroramart", "storefront")
			minter.Now = func() time.Time { return now }
			if tc.mint != nil {
				minter = tc.mint(minter)
			}
			token, err := minter.Issue(customer, nil, tc.ttl)
			require.NoError(t, err)

			v := NewVerifier("super-secret", "auroramart", "storefront")
			v.Now = func() time.Time { return tc.at }
			id, err := v.Verify(token)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, customer, id.CustomerID)
		})
	}
}

func TestVerifierRequiresUUIDSubject(t *testing.T) {
	v := newTestVerifier()
	now := v.Now()
	tok, err := jwt.NewBuilder().
		Subject("not-a-customer").
		Issuer(v.Issuer).
		Audience([]string{v.Audience}).
		IssuedAt(now).
		Expiration(now.Add(time.Minute)).
		Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, v.Secret))
	require.NoError(t, err)

	_, err = v.Verify(string(signed))
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "invalid token subject", appErr.Message)
}

func TestRolesClaimShapes(t *testing.T) {
	for _, raw := range []any{[]string{"admin"}, []any{"admin", 7}, "admin support"} {
		tok := jwt.New()
		require.NoError(t, tok.Set(RolesClaim, raw))
		require.Contains(t, rolesOf(tok), RoleAdmin)
	}
	require.Nil(t, rolesOf(jwt.New()))
}
