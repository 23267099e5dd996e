// internal/tenant/middleware_test.go
//
// Unit-tests for the resolver middleware and the context plumbing.

package tenant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestKeyFromContextDefault(t *testing.T) {
	if got := KeyFromContext(context.Background()); got != MainKey {
		t.Fatalf("bare context key = %q, want main", got)
	}
}

func TestMiddleware(t *testing.T) {
	res := NewResolver("alnashra.co", nil, false)

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = KeyFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := Middleware(res)(next)

	req := httptest.NewRequest(http.MethodGet, "http://pub1.alnashra.co/blogs", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "pub1" {
		t.Fatalf("resolved key = %q, want pub1", got)
	}

	req = httptest.NewRequest(http.MethodGet, "http://alnashra.co/", nil)
	req.Header.Set(OverrideHeader, "acme")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "acme" {
		t.Fatalf("override key = %q, want acme", got)
	}
}
