// internal/tenant/fanout.go
//
// Cross-tenant fan-out.  No single query can span schemas, so aggregation
// iterates the registry, acquires each tenant's pool through the normal
// chokepoint, and lets the caller merge results in memory.  Cost is
// O(tenant count × per-tenant result size) with no per-tenant LIMIT
// push-down; acceptable at the tenant counts this platform targets.
package tenant

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alnashra/platform/internal/metrics"
)

// ForEach runs fn once per registered tenant with that tenant's pool.  The
// first error aborts the sweep.  fn must not retain the pool beyond its
// invocation; the evictor may close it afterwards.
func (p *Provisioner) ForEach(ctx context.Context, fn func(ctx context.Context, key string, db *sqlx.DB) error) error {
	timer := prometheus.NewTimer(metrics.FanoutSeconds)
	defer timer.ObserveDuration()

	recs, err := p.registry.List(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}

	for _, rec := range recs {
		db, err := p.Handle(ctx, rec.Domain)
		if err != nil {
			return fmt.Errorf("tenant %s: %w", rec.Domain, err)
		}
		if err := fn(ctx, rec.Domain, db); err != nil {
			return fmt.Errorf("tenant %s: %w", rec.Domain, err)
		}
	}
	return nil
}
