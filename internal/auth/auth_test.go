// internal/auth/auth_test.go
//
// Unit-tests for token signing, verification, and the role gates.

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alnashra/platform/internal/user"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSignVerifyRoundTrip(t *testing.T) {
	s := NewSigner(testSecret, time.Hour)

	token, err := s.Sign("user-1", "ed@example.com", user.RoleEditor, "acme")
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "ed@example.com" ||
		claims.Role != user.RoleEditor || claims.Tenant != "acme" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewSigner(testSecret, time.Hour).
		Sign("user-1", "ed@example.com", user.RoleEditor, "acme")
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	other := NewSigner("ffffffffffffffffffffffffffffffff", time.Hour)
	if _, err := other.Verify(token); err == nil {
		t.Fatal("token signed with a different secret must not verify")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	s := NewSigner(testSecret, -time.Minute)
	token, err := s.Sign("user-1", "ed@example.com", user.RoleEditor, "acme")
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}
	if _, err := s.Verify(token); err == nil {
		t.Fatal("expired token must not verify")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s := NewSigner(testSecret, time.Hour)
	if _, err := s.Verify("not.a.token"); err == nil {
		t.Fatal("garbage token must not verify")
	}
}

func TestMiddlewareChain(t *testing.T) {
	s := NewSigner(testSecret, time.Hour)
	token, err := s.Sign("user-1", "ed@example.com", user.RoleEditor, "acme")
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name   string
		bearer string
		gate   func(http.Handler) http.Handler
		want   int
	}{
		{"anonymous passthrough", "", Verify(s), http.StatusOK},
		{"anonymous blocked by Require", "", Require(), http.StatusUnauthorized},
		{"authed passes open Require", token, Require(), http.StatusOK},
		{"matching role passes", token, Require(user.RoleEditor, user.RoleAdmin), http.StatusOK},
		{"wrong role forbidden", token, Require(user.RoleAdmin), http.StatusForbidden},
		{"invalid token rejected", "bogus", Verify(s), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tc.bearer)
			}
			rr := httptest.NewRecorder()

			Verify(s)(tc.gate(ok)).ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}
