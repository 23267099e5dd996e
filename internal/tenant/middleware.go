// internal/tenant/middleware.go
//
// HTTP middleware resolving the tenant key once per request.
//
// The X-Tenant header is the explicit resolver override: it is only meant
// for internal calls and admin tooling, so deployments must strip it at the
// edge for end-user traffic.
package tenant

import "net/http"

// OverrideHeader names the trusted internal tenant override.
const OverrideHeader = "X-Tenant"

// Middleware resolves (Host, X-Tenant) to a tenant key and stores it in the
// request context for every downstream handler.
func Middleware(r *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			key := r.Resolve(req.Host, req.Header.Get(OverrideHeader))
			next.ServeHTTP(w, req.WithContext(WithKey(req.Context(), key)))
		})
	}
}
