// Package auth issues and verifies the platform's JWTs and carries the
// verified identity through the request context.
//
// A token binds {user id, email, role, tenant key}: the role is only
// meaningful inside the tenant it was granted for, so cross-tenant requests
// need a fresh token.  Tenant resolution itself is independent of auth:
// the core trusts the claims it is handed; enforcement is middleware.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alnashra/platform/internal/user"
)

// DefaultTokenTTL matches the original deployment's two-hour sessions.
const DefaultTokenTTL = 2 * time.Hour

// ErrInvalidToken covers expiry, bad signatures, and malformed claims.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the platform JWT payload.
type Claims struct {
	Email  string    `json:"email"`
	Role   user.Role `json:"role"`
	Tenant string    `json:"tenant"`
	jwt.RegisteredClaims
}

// Signer signs and verifies tokens with one HMAC secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner builds a Signer.  ttl <= 0 falls back to DefaultTokenTTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// Sign issues a token for userID acting as role inside tenant.
func (s *Signer) Sign(userID, email string, role user.Role, tenant string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:  email,
		Role:   role,
		Tenant: tenant,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token, returning its claims.
func (s *Signer) Verify(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

//
// Request context plumbing
//

// claimsKey is unexported to avoid context-key collisions.
type claimsKey struct{}

// WithClaims returns a context carrying the verified claims.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// FromContext returns the claims set by the middleware, or (nil, false).
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}
