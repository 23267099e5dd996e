// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnashra/platform/internal/requestinfo"
	"github.com/alnashra/platform/internal/tenant"
)

// AccessLog emits one structured line per request, enriched with UA and
// geo data from internal/requestinfo and the resolved tenant key.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		info := requestinfo.Collect(r)
		zap.S().Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"host", r.Host,
			"tenant", tenant.KeyFromContext(r.Context()),
			"ip", info.IP.String(),
			"country", info.CountryISO,
			"city", info.City,
			"browser", info.Browser,
			"os", info.OS,
			"device", info.Device,
			"bot", info.IsBot,
			"duration", time.Since(start).Truncate(time.Millisecond),
		)
	})
}

// ForceHTTPS wraps h.  If the request is plain HTTP, the host is not
// "localhost", and the host is either the root domain or a registered
// tenant, the wrapper issues a 308 Permanent Redirect to the HTTPS version
// of the same URL.  Unknown hosts keep the normal flow (likely 404 later).
func ForceHTTPS(res *tenant.Resolver, reg *tenant.Registry, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := stripPort(r.Host)
		if r.TLS != nil || host == "localhost" || strings.HasSuffix(host, ".localhost") {
			h.ServeHTTP(w, r)
			return
		}

		redirect := false
		if key := res.Resolve(r.Host, ""); key == tenant.MainKey {
			root := res.RootDomain()
			redirect = host == root || host == "www."+root
		} else if _, err := reg.ByDomain(r.Context(), key); err == nil {
			redirect = true
		}

		if redirect {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// Security sets security headers for every response.  Headers go on before
// next.ServeHTTP runs; once a handler calls WriteHeader, additions are lost.
func Security(next http.Handler) http.Handler {
	const (
		hsts = "max-age=63072000; includeSubDomains; preload"
		csp  = "default-src 'self'; img-src 'self' data:; object-src 'none'; " +
			"base-uri 'self'; frame-ancestors 'none'"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Strict-Transport-Security", hsts)
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		next.ServeHTTP(w, r)
	})
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
