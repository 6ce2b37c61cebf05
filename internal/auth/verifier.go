package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/richardprab/auroramart/internal/common"
)

const (
	// RolesClaim is the private claim listing the caller's roles.
	RolesClaim = "roles"
	// RoleAdmin grants access to the admin API.
	RoleAdmin = "admin"
)

// Verifier checks HS256 bearer tokens minted by the identity provider.
// Issuer and Audience are enforced only when set.
type Verifier struct {
	Secret    []byte
	Issuer    string
	Audience  string
	ClockSkew time.Duration
	Algorithm jwa.SignatureAlgorithm
	Now       func() time.Time
}

// NewVerifier builds a verifier for HS256 tokens.
func NewVerifier(secret, issuer, audience string) *Verifier {
	return &Verifier{
		Secret:    []byte(secret),
		Issuer:    issuer,
		Audience:  audience,
		ClockSkew: 30 * time.Second,
		Algorithm: jwa.HS256,
	}
}

// Verify parses and validates token, returning the caller identity.
func (v *Verifier) Verify(token string) (common.Identity, error) {
	if v == nil || len(v.Secret) == 0 {
		return common.Identity{}, errors.New("auth: verifier not configured")
	}
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return common.Identity{}, unauthorized("missing token", nil)
	}
	algorithm, err := tokenAlgorithm(trimmed)
	if err != nil {
		return common.Identity{}, unauthorized("invalid token", err)
	}
	if v.Algorithm != "" && algorithm != v.Algorithm {
		return common.Identity{}, unauthorized("invalid token", fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, v.Secret), jwt.WithValidate(false))
	if err != nil {
		return common.Identity{}, unauthorized("invalid token", err)
	}
	if err := v.validateClaims(parsed, v.now()); err != nil {
		return common.Identity{}, unauthorized("invalid token", err)
	}
	customerID, err := uuid.Parse(parsed.Subject())
	if err != nil {
		return common.Identity{}, unauthorized("invalid token subject", err)
	}
	return common.Identity{CustomerID: customerID, Roles: rolesOf(parsed)}, nil
}

// Issue mints a token for the customer. Used by operator tooling and tests.
func (v *Verifier) Issue(customerID uuid.UUID, roles []string, ttl time.Duration) (string, error) {
	if v == nil || len(v.Secret) == 0 {
		return "", errors.New("auth: verifier not configured")
	}
	now := v.now()
	builder := jwt.NewBuilder().
		Subject(customerID.String()).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(ttl))
	if v.Issuer != "" {
		builder = builder.Issuer(v.Issuer)
	}
	if v.Audience != "" {
		builder = builder.Audience([]string{v.Audience})
	}
	if len(roles) > 0 {
		builder = builder.Claim(RolesClaim, roles)
	}
	tok, err := builder.Build()
	if err != nil {
		return "", err
	}
	alg := v.Algorithm
	if alg == "" {
		alg = jwa.HS256
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(alg, v.Secret))
	if err != nil {
		return "", err
	}
	return string(signed), nil
}

// validateClaims requires sub and exp and checks the time window, issuer and
// audience against now.
func (v *Verifier) validateClaims(tok jwt.Token, now time.Time) error {
	options := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
		jwt.WithRequiredClaim(jwt.SubjectKey),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
	}
	if v.ClockSkew > 0 {
		options = append(options, jwt.WithAcceptableSkew(v.ClockSkew))
	}
	if v.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.Issuer))
	}
	if v.Audience != "" {
		options = append(options, jwt.WithAudience(v.Audience))
	}
	return jwt.Validate(tok, options...)
}

func (v *Verifier) now() time.Time {
	if v != nil && v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

func rolesOf(tok jwt.Token) []string {
	raw, ok := tok.Get(RolesClaim)
	if !ok {
		return nil
	}
	switch vals := raw.(type) {
	case []string:
		return vals
	case []any:
		roles := make([]string, 0, len(vals))
		for _, r := range vals {
			if s, ok := r.(string); ok && s != "" {
				roles = append(roles, s)
			}
		}
		return roles
	case string:
		return strings.Fields(vals)
	}
	return nil
}

func tokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) != 1 {
		return "", errors.New("auth: token must carry exactly one signature")
	}
	headers := signatures[0].ProtectedHeaders()
	if headers == nil {
		return "", errors.New("auth: token missing protected headers")
	}
	alg := headers.Algorithm()
	if alg == "" || alg == jwa.NoSignature {
		return "", errors.New("auth: token has no usable algorithm")
	}
	return alg, nil
}

func unauthorized(message string, err error) *common.AppError {
	return common.NewAppError("UNAUTHORIZED", message, http.StatusUnauthorized, err)
}
