// internal/tenant/lifecycle.go
//
// Tenant provisioning and deprovisioning.
//
// Context
// -------
// Provision is the only way a TenantRecord and its schema come into being,
// which keeps the two-sided invariant (no record without a schema, no
// schema without a record) in one code path.  Default branding and taxonomy
// are cloned from main on a best-effort basis: clone failures are logged
// and surfaced as warnings on the result, never as a provisioning failure,
// because the record and a usable empty schema already exist.
//
// Deprovision deletes the registry row FIRST and drops the schema second.
// A crash in between leaves an orphan schema no request can reach (the
// provisioner fails closed on unregistered domains), which a maintenance
// sweep can clean up.  The reverse order would leave a registered tenant
// whose every request fails.
package tenant

import (
	"context"

	"go.uber.org/zap"

	"github.com/alnashra/platform/internal/category"
	"github.com/alnashra/platform/internal/database"
	"github.com/alnashra/platform/internal/metrics"
	"github.com/alnashra/platform/internal/search"
	"github.com/alnashra/platform/internal/sitesetting"
	"github.com/alnashra/platform/internal/user"
)

// ProvisionResult carries the created record plus any warnings from the
// best-effort default-data cloning step.
type ProvisionResult struct {
	Record   Record   `json:"record"`
	Warnings []string `json:"warnings,omitempty"`
}

// Lifecycle owns provisioning and deprovisioning.  Authorization is the
// caller's concern; these operations trust the identity they are handed.
type Lifecycle struct {
	prov *Provisioner
	reg  *Registry
	log  *zap.SugaredLogger
}

// NewLifecycle wires the lifecycle over the shared registry and provisioner.
func NewLifecycle(prov *Provisioner, reg *Registry, log *zap.SugaredLogger) *Lifecycle {
	return &Lifecycle{prov: prov, reg: reg, log: log}
}

// Provision validates and registers a new tenant, creates its schema, and
// seeds defaults cloned from main.  Safe to retry: the schema create is
// idempotent and a duplicate registration fails with ErrConflict.
func (l *Lifecycle) Provision(ctx context.Context, candidate string) (*ProvisionResult, error) {
	domain := Normalize(candidate)

	rec, err := l.reg.Create(ctx, domain)
	if err != nil {
		return nil, err
	}

	// First access opens the pool: schema create + per-tenant DDL.
	db, err := l.prov.Handle(ctx, domain)
	if err != nil {
		return nil, err
	}

	res := &ProvisionResult{Record: *rec}
	main := l.prov.Main()

	if err := sitesetting.Clone(ctx, main, db); err != nil {
		l.log.Warnw("site setting clone failed", "tenant", domain, "err", err)
		res.Warnings = append(res.Warnings, "site settings not cloned: "+err.Error())
	}
	if err := category.CloneAll(ctx, main, db); err != nil {
		l.log.Warnw("category clone failed", "tenant", domain, "err", err)
		res.Warnings = append(res.Warnings, "categories not cloned: "+err.Error())
	}

	metrics.TenantProvisionTotal.Inc()
	l.log.Infow("tenant provisioned", "tenant", domain, "warnings", len(res.Warnings))
	return res, nil
}

// Deprovision irreversibly destroys a tenant: cached pool closed, registry
// row deleted, schema dropped with all its data.  ErrNotFound when the
// domain was never registered.
func (l *Lifecycle) Deprovision(ctx context.Context, domain string) error {
	domain = Normalize(domain)

	if _, err := l.reg.ByDomain(ctx, domain); err != nil {
		return err
	}

	l.prov.Invalidate(domain)

	if err := l.reg.Delete(ctx, domain); err != nil {
		return err
	}

	// Shared-schema leftovers: role grants and index entries must not
	// outlive the tenant.  Failures here are logged, not fatal; the tenant
	// is already unreachable.
	if err := user.New(l.prov.Main()).RemoveMembershipsByTenant(ctx, domain); err != nil {
		l.log.Warnw("membership cleanup failed", "tenant", domain, "err", err)
	}
	if err := search.New(l.prov.Main()).RemoveByTenant(ctx, domain); err != nil {
		l.log.Warnw("index cleanup failed", "tenant", domain, "err", err)
	}

	if err := database.DropSchema(ctx, l.prov.Main(), SchemaName(domain)); err != nil {
		// Registry row is gone, so the tenant is unreachable; the schema is
		// now an orphan for the maintenance sweep.
		l.log.Errorw("schema drop failed, orphan schema left behind",
			"tenant", domain, "err", err)
		return &ProvisioningError{Domain: domain, Err: err}
	}

	metrics.TenantDeprovisionTotal.Inc()
	l.log.Infow("tenant deprovisioned", "tenant", domain)
	return nil
}
