// internal/tenant/domain.go
//
// Tenant key rules shared across resolver, registry, and lifecycle.
//
// Context
// -------
// A tenant key is either the literal "main" (the shared schema, never a
// registry row) or a validated domain slug: lowercase alphanumerics and
// interior hyphens, 1–50 characters.  The slug doubles as the schema suffix,
// so the format check is also the injection guard for identifier
// interpolation (see internal/database/schema.go).
package tenant

import (
	"fmt"
	"regexp"
	"strings"
)

// MainKey is the reserved virtual tenant key for the shared schema.  It has
// no TenantRecord row and no dedicated schema of its own.
const MainKey = "main"

// DefaultReserved are first labels that always resolve to main and may
// never be provisioned as tenant domains, regardless of configuration.
var DefaultReserved = []string{"www", "api", "admin", "auth"}

var slugRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// reservedSet folds DefaultReserved together with extra names from config
// into a lowercase lookup set.
func reservedSet(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(DefaultReserved)+len(extra))
	for _, r := range DefaultReserved {
		set[r] = struct{}{}
	}
	for _, r := range extra {
		set[strings.ToLower(r)] = struct{}{}
	}
	return set
}

// Normalize trims and lowercases a domain candidate.  Validation and
// reserved-word checks run against the normalized form, which makes "WWW"
// as rejectable as "www".
func Normalize(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// ValidateDomain rejects candidates that fail the slug pattern, exceed 50
// characters, equal "main", or collide with a reserved word.  The input
// must already be normalized.
func ValidateDomain(domain string, reserved map[string]struct{}) error {
	if domain == "" || len(domain) > 50 {
		return fmt.Errorf("%w: %q must be 1-50 characters", ErrInvalidDomain, domain)
	}
	if !slugRe.MatchString(domain) {
		return fmt.Errorf("%w: %q is not a valid slug", ErrInvalidDomain, domain)
	}
	if domain == MainKey {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidDomain, domain)
	}
	if reserved == nil {
		reserved = reservedSet(nil)
	}
	if _, hit := reserved[domain]; hit {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidDomain, domain)
	}
	return nil
}

// SchemaName maps a tenant key to its schema.  The prefix keeps tenant
// schemas clear of the shared schema and of server-owned databases such as
// `mysql` and `sys`.
func SchemaName(domain string) string {
	return "tenant_" + domain
}
