// internal/tenant/resolver.go
//
// Host header → tenant key.
//
// Context
// -------
// The resolver is a pure function of (host, override) and the startup
// configuration.  An unrecognised host is never an error: it falls back to
// "main" so misconfigured DNS cannot crash request handling.
//
// Rule order matters.  "www.<root>" must resolve to main before the generic
// suffix match would extract "www" as a tenant, which is why the reserved
// check runs on the first label ahead of everything suffix-shaped.
package tenant

import "strings"

// Resolver derives tenant keys from inbound hosts.  Construct once at
// startup; the rule table is immutable for the process lifetime.
type Resolver struct {
	rootDomain string
	rootLabels int
	reserved   map[string]struct{}
	devMode    bool
}

// NewResolver builds a Resolver for the configured root domain.  extra
// extends the built-in reserved-name set; devMode enables the
// "<sub>.localhost" convenience rule.
func NewResolver(rootDomain string, extra []string, devMode bool) *Resolver {
	root := strings.ToLower(strings.TrimSpace(rootDomain))
	return &Resolver{
		rootDomain: root,
		rootLabels: len(strings.Split(root, ".")),
		reserved:   reservedSet(extra),
		devMode:    devMode,
	}
}

// RootDomain returns the configured root domain (normalized).
func (r *Resolver) RootDomain() string { return r.rootDomain }

// Resolve maps a Host header (and optional trusted override) to a tenant
// key.  The override bypasses host parsing entirely; it is meant for
// internal calls and admin tooling, never end-user-controlled input.
func (r *Resolver) Resolve(host, override string) string {
	if override != "" {
		return override
	}

	host = strings.ToLower(strings.TrimSpace(stripPort(host)))
	if host == "" || host == "localhost" {
		return MainKey
	}

	labels := strings.Split(host, ".")

	if _, hit := r.reserved[labels[0]]; hit {
		return MainKey
	}

	// Dev convenience: "<sub>.localhost" has fewer labels than a production
	// subdomain, so it must be recognised before the label-count rule.
	if r.devMode && strings.HasSuffix(host, ".localhost") {
		return labels[0]
	}

	// The root domain itself carries no subdomain label.
	if len(labels) <= r.rootLabels {
		return MainKey
	}

	if strings.HasSuffix(host, "."+r.rootDomain) {
		return labels[0]
	}

	return MainKey
}

// stripPort removes any ":port" suffix from the Host header.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
