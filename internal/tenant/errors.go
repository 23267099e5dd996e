// internal/tenant/errors.go
//
// Error taxonomy for tenancy.  The HTTP layer maps these onto status codes
// in exactly one place (internal/httpapi); nothing in this package knows
// about HTTP.
package tenant

import (
	"errors"
	"fmt"
)

// Sentinel errors.  Wrap with %w and test with errors.Is.
var (
	// ErrNotFound is returned when an operation references a domain with no
	// registry row: lookup, deprovision, or a cold pool miss, since access
	// to an unregistered tenant fails closed.
	ErrNotFound = errors.New("tenant not found")

	// ErrConflict is returned when the domain is already registered.
	ErrConflict = errors.New("tenant domain already registered")

	// ErrInvalidDomain is returned when a candidate fails the slug format
	// check or collides with a reserved word.
	ErrInvalidDomain = errors.New("invalid tenant domain")
)

// ProvisioningError wraps failures while creating or migrating a tenant
// schema (DDL denied, storage errors during provisioning).
type ProvisioningError struct {
	Domain string
	Err    error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provision tenant %q: %v", e.Domain, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// ConnectivityError wraps failures to reach the storage backend during
// ordinary handle acquisition.  Requests against the tenant fail identically
// until connectivity returns; each one re-attempts independently.
type ConnectivityError struct {
	Domain string
	Err    error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("tenant %q storage unreachable: %v", e.Domain, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }
