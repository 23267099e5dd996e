// internal/tenant/provisioner_test.go
//
// Unit-tests for the lazy pool cache.
//
// Context
// -------
// The open and migrate steps are injectable, so these tests swap in
// recorders and drive the cache against a sqlmock main pool: the main
// shortcut bypasses the cache, a cold miss runs registry check → schema
// create → open → DDL exactly once, a cache hit reuses the pool with no
// SQL, an unregistered domain fails closed, and Invalidate forces a
// re-open.
//
// Run: go test ./internal/tenant -v

package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/alnashra/platform/internal/database"
)

// testPool returns a throwaway sqlx pool backed by its own sqlmock, for
// handing out as a "tenant pool" from an injected open func.
func testPool(t *testing.T) *sqlx.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock")
}

func newTestProvisioner(t *testing.T) (*Provisioner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	main := sqlx.NewDb(db, "sqlmock")
	reg := NewRegistry(main, nil)
	p := NewProvisioner(main, reg, "dsn-%s", 0, zap.NewNop().Sugar())
	t.Cleanup(p.Close)
	return p, mock
}

// expectColdMiss queues the two main-pool statements a first access runs:
// the registry lookup and the idempotent schema create.
func expectColdMiss(mock sqlmock.Sqlmock, domain string) {
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs(domain).
		WillReturnRows(recordRows(uuid.New(), domain))
	mock.ExpectExec(`CREATE DATABASE IF NOT EXISTS`).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestHandleMainShortcut(t *testing.T) {
	p, mock := newTestProvisioner(t)

	db, err := p.Handle(context.Background(), MainKey)
	if err != nil {
		t.Fatalf("Handle(main) error: %v", err)
	}
	if db != p.Main() {
		t.Fatal("Handle(main) must return the shared pool")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("main shortcut ran SQL: %v", err)
	}
}

func TestHandleColdMissThenHit(t *testing.T) {
	p, mock := newTestProvisioner(t)

	pool := testPool(t)
	var openedDSN string
	var opens, migrates int
	p.open = func(_ context.Context, dsn string, _ database.Options) (*sqlx.DB, error) {
		opens++
		openedDSN = dsn
		return pool, nil
	}
	p.migrate = func(context.Context, *sqlx.DB) error {
		migrates++
		return nil
	}

	expectColdMiss(mock, "acme")

	got, err := p.Handle(context.Background(), "acme")
	if err != nil {
		t.Fatalf("cold miss error: %v", err)
	}
	if got != pool {
		t.Fatal("cold miss returned the wrong pool")
	}
	if openedDSN != "dsn-tenant_acme" {
		t.Fatalf("opened DSN = %q, want dsn-tenant_acme", openedDSN)
	}

	// Warm hit: same pool, no further SQL, no further open or migrate.
	got, err = p.Handle(context.Background(), "acme")
	if err != nil {
		t.Fatalf("warm hit error: %v", err)
	}
	if got != pool {
		t.Fatal("warm hit returned the wrong pool")
	}
	if opens != 1 || migrates != 1 {
		t.Fatalf("opens = %d, migrates = %d, want 1 and 1", opens, migrates)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestHandleIsolatesTenants(t *testing.T) {
	p, mock := newTestProvisioner(t)

	pools := map[string]*sqlx.DB{}
	p.open = func(_ context.Context, dsn string, _ database.Options) (*sqlx.DB, error) {
		pool := testPool(t)
		pools[dsn] = pool
		return pool, nil
	}
	p.migrate = func(context.Context, *sqlx.DB) error { return nil }

	expectColdMiss(mock, "alpha")
	a, err := p.Handle(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("Handle(alpha) error: %v", err)
	}

	expectColdMiss(mock, "beta")
	b, err := p.Handle(context.Background(), "beta")
	if err != nil {
		t.Fatalf("Handle(beta) error: %v", err)
	}

	// Each tenant gets its own pool bound to its own schema DSN; a write
	// through one handle can never land in the other's schema, or in main.
	if a == b {
		t.Fatal("alpha and beta share a pool")
	}
	if a == p.Main() || b == p.Main() {
		t.Fatal("tenant handle aliases the shared main pool")
	}
	if pools["dsn-tenant_alpha"] != a || pools["dsn-tenant_beta"] != b {
		t.Fatalf("pool↔DSN binding wrong: %v", pools)
	}

	// Warm hits stay partitioned.
	if again, _ := p.Handle(context.Background(), "alpha"); again != a {
		t.Fatal("warm hit for alpha returned a different pool")
	}
}

func TestHandleFailsClosedForUnregistered(t *testing.T) {
	p, mock := newTestProvisioner(t)

	p.open = func(context.Context, string, database.Options) (*sqlx.DB, error) {
		t.Fatal("open must not run for an unregistered domain")
		return nil, nil
	}

	// Registry lookup misses; no schema create may follow.
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "domain", "created_at"}))

	if _, err := p.Handle(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Handle = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestHandleMigrateFailure(t *testing.T) {
	p, mock := newTestProvisioner(t)

	p.open = func(context.Context, string, database.Options) (*sqlx.DB, error) {
		return testPool(t), nil
	}
	p.migrate = func(context.Context, *sqlx.DB) error {
		return errors.New("ddl boom")
	}

	expectColdMiss(mock, "acme")

	_, err := p.Handle(context.Background(), "acme")
	var pe *ProvisioningError
	if !errors.As(err, &pe) {
		t.Fatalf("Handle = %v, want *ProvisioningError", err)
	}
	if pe.Domain != "acme" {
		t.Fatalf("error domain = %q, want acme", pe.Domain)
	}
}

func TestInvalidateForcesReopen(t *testing.T) {
	p, mock := newTestProvisioner(t)

	var opens int
	p.open = func(context.Context, string, database.Options) (*sqlx.DB, error) {
		opens++
		return testPool(t), nil
	}
	p.migrate = func(context.Context, *sqlx.DB) error { return nil }

	expectColdMiss(mock, "acme")
	if _, err := p.Handle(context.Background(), "acme"); err != nil {
		t.Fatalf("first Handle error: %v", err)
	}

	p.Invalidate("acme")

	expectColdMiss(mock, "acme")
	if _, err := p.Handle(context.Background(), "acme"); err != nil {
		t.Fatalf("Handle after Invalidate error: %v", err)
	}
	if opens != 2 {
		t.Fatalf("opens = %d, want 2", opens)
	}
}
