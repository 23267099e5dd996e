// internal/tenant/provisioner.go
//
// Lazy per-tenant connection pools.
//
// Context
// -------
// One process serves many isolated schemas.  The main pool is fixed at
// construction and always available; every other tenant gets a small sqlx
// pool opened on first access, cached in a sync.Map, and evicted on idle
// TTL or LRU pressure (see evictor.go).  Cold misses are collapsed behind a
// singleflight group so concurrent first-accesses to a brand-new tenant
// share one schema check and one pool open.
//
// Cold misses fail closed: the registry must hold a row for the domain
// before any schema is created.  A deprovisioned tenant therefore gets
// ErrNotFound instead of a silently recreated empty schema.
package tenant

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/alnashra/platform/internal/database"
	"github.com/alnashra/platform/internal/metrics"
)

// Static defaults.  Override via the tenancy config section if desired.
const (
	IdleTTL       = 30 * time.Minute
	MaxPools      = 100
	EvictInterval = 5 * time.Minute
)

type entry struct {
	db       *sqlx.DB
	lastSeen int64 // UnixNano
}

// openFunc opens and pings a pool for one DSN.  Swapped out in tests.
type openFunc func(ctx context.Context, dsn string, opts database.Options) (*sqlx.DB, error)

// migrateFunc applies the per-tenant DDL to a fresh pool.  Swapped out in
// tests.
type migrateFunc func(ctx context.Context, db *sqlx.DB) error

// Provisioner owns the main pool plus the lazy cache of tenant pools.  It
// is constructed once in main and passed by reference; Close drains every
// pool on shutdown.
type Provisioner struct {
	main        *sqlx.DB
	registry    *Registry
	dsnTemplate string // exactly one %s verb, filled with the schema name
	log         *zap.SugaredLogger

	open    openFunc
	migrate migrateFunc

	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	idleTTL     time.Duration
	maxPools    int
}

// NewProvisioner constructs the Provisioner and starts the background
// evictor.  maxPools <= 0 disables LRU pressure eviction.
func NewProvisioner(main *sqlx.DB, reg *Registry, dsnTemplate string, maxPools int, log *zap.SugaredLogger) *Provisioner {
	if maxPools == 0 {
		maxPools = MaxPools
	}
	p := &Provisioner{
		main:        main,
		registry:    reg,
		dsnTemplate: dsnTemplate,
		log:         log,
		open:        database.OpenWithOptions,
		migrate:     database.MigrateTenant,
		idleTTL:     IdleTTL,
		maxPools:    maxPools,
	}
	p.evictTicker = time.NewTicker(EvictInterval)
	go p.evictLoop()
	return p
}

// Main returns the shared pool.  It is never lazily created; main() fails
// at startup if it cannot be opened.
func (p *Provisioner) Main() *sqlx.DB { return p.main }

// Handle returns the pool bound to the tenant's schema, opening it on
// demand.  "main" short-circuits to the shared pool with no cache involved.
func (p *Provisioner) Handle(ctx context.Context, key string) (*sqlx.DB, error) {
	if key == MainKey {
		return p.main, nil
	}

	if v, ok := p.m.Load(key); ok {
		ent := v.(*entry)
		atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
		return ent.db, nil
	}

	v, err, _ := p.sfg.Do(key, func() (any, error) {
		// Double-check after the singleflight barrier.
		if v, ok := p.m.Load(key); ok {
			ent := v.(*entry)
			atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
			return ent.db, nil
		}
		db, err := p.openTenant(ctx, key)
		if err != nil {
			metrics.TenantPoolErrorsTotal.Inc()
			return nil, err
		}
		p.m.Store(key, &entry{db: db, lastSeen: time.Now().UnixNano()})
		metrics.TenantPoolOpenTotal.Inc()
		metrics.ActiveTenantPools.Inc()
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sqlx.DB), nil
}

// openTenant turns a registered domain into a live pool.  Steps:
//
//  1. Registry row must exist (fail closed).
//  2. Idempotent schema create against the main pool.
//  3. Open a small pool bound to the tenant schema.
//  4. Apply per-tenant DDL (also idempotent).
func (p *Provisioner) openTenant(ctx context.Context, key string) (*sqlx.DB, error) {
	if _, err := p.registry.ByDomain(ctx, key); err != nil {
		return nil, err
	}

	schema := SchemaName(key)
	if err := database.EnsureSchema(ctx, p.main, schema); err != nil {
		return nil, &ProvisioningError{Domain: key, Err: err}
	}

	opts := database.Options{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
	db, err := p.open(ctx, fmt.Sprintf(p.dsnTemplate, schema), opts)
	if err != nil {
		return nil, &ConnectivityError{Domain: key, Err: err}
	}

	if err := p.migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, &ProvisioningError{Domain: key, Err: err}
	}

	p.log.Infow("tenant pool online", "tenant", key, "schema", schema)
	return db, nil
}

// Invalidate drops and closes the cached pool for key, if any.  Called by
// Deprovision before the schema is dropped so no handle outlives its data.
func (p *Provisioner) Invalidate(key string) {
	if v, ok := p.m.LoadAndDelete(key); ok {
		_ = v.(*entry).db.Close()
		metrics.ActiveTenantPools.Dec()
	}
}

// Close stops the evictor and closes every tenant pool.  The main pool
// belongs to main() and is closed there.
func (p *Provisioner) Close() {
	if p.evictTicker != nil {
		p.evictTicker.Stop()
	}
	p.m.Range(func(key, value any) bool {
		_ = value.(*entry).db.Close()
		p.m.Delete(key)
		metrics.ActiveTenantPools.Dec()
		return true
	})
}
