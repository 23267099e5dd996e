// internal/auth/middleware.go
//
// Bearer-token middleware and role gates.  Authorization policy stays out
// of the tenancy core: handlers that need a role wrap themselves here.
package auth

import (
	"net/http"
	"strings"

	"github.com/alnashra/platform/internal/user"
)

// Verify extracts and validates the Bearer token, storing claims in the
// request context.  Requests without a token pass through anonymous;
// handlers that need identity use Require.
func Verify(s *Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearer(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := s.Verify(raw)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// Require rejects requests whose context lacks one of the given roles.
// With no roles listed, any authenticated identity passes.
func Require(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := FromContext(r.Context())
			if !ok {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if len(roles) > 0 && !hasRole(claims.Role, roles) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasRole(have user.Role, want []user.Role) bool {
	for _, r := range want {
		if have == r {
			return true
		}
	}
	return false
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
