// internal/tenant/lifecycle_test.go
//
// Unit-tests for tenant provisioning and deprovisioning.
//
// Context
// -------
// The provisioner's open and migrate steps are injected, so the whole
// lifecycle runs against one sqlmock main pool with ordered expectations.
// That ordering is the point: deprovision must delete the registry row
// before dropping the schema, and provision must register before touching
// any schema.
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

func newTestLifecycle(t *testing.T) (*Lifecycle, *Provisioner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	main := sqlx.NewDb(db, "sqlmock")
	reg := NewRegistry(main, nil)
	log := zap.NewNop().Sugar()
	p := NewProvisioner(main, reg, "dsn-%s", 0, log)
	t.Cleanup(p.Close)
	p.open = func(context.Context, string, database.Options) (*sqlx.DB, error) {
		return testPool(t), nil
	}
	p.migrate = func(context.Context, *sqlx.DB) error { return nil }

	return NewLifecycle(p, reg, log), p, mock
}

func emptyRecordRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "domain", "created_at"})
}

func TestProvision(t *testing.T) {
	lc, _, mock := newTestLifecycle(t)

	// Registration: pre-check miss, insert, re-fetch.
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").WillReturnRows(emptyRecordRows())
	mock.ExpectExec(`INSERT INTO tenant`).
		WithArgs(sqlmock.AnyArg(), "acme").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").WillReturnRows(recordRows(uuid.New(), "acme"))

	// First access: registry check + schema create on the main pool.
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").WillReturnRows(recordRows(uuid.New(), "acme"))
	mock.ExpectExec(`CREATE DATABASE IF NOT EXISTS`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Default cloning reads main; empty sources are fine.
	mock.ExpectQuery(`SELECT .+ FROM site_setting`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "logo_light_url", "logo_dark_url", "base_color", "site_title", "site_meta", "updated_at",
		}))
	mock.ExpectQuery(`SELECT id, name, slug, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}))

	res, err := lc.Provision(context.Background(), "  ACME ")
	if err != nil {
		t.Fatalf("Provision error: %v", err)
	}
	if res.Record.Domain != "acme" {
		t.Fatalf("record domain = %q, want acme", res.Record.Domain)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestProvisionCloneFailureIsWarning(t *testing.T) {
	lc, _, mock := newTestLifecycle(t)

	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").WillReturnRows(emptyRecordRows())
	mock.ExpectExec(`INSERT INTO tenant`).
		WithArgs(sqlmock.AnyArg(), "acme").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").WillReturnRows(recordRows(uuid.New(), "acme"))
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").WillReturnRows(recordRows(uuid.New(), "acme"))
	mock.ExpectExec(`CREATE DATABASE IF NOT EXISTS`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Both clone reads blow up; the tenant must still come up, with the
	// failures surfaced as warnings.
	mock.ExpectQuery(`SELECT .+ FROM site_setting`).
		WillReturnError(errors.New("clone boom"))
	mock.ExpectQuery(`SELECT id, name, slug, created_at`).
		WillReturnError(errors.New("clone boom"))

	res, err := lc.Provision(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Provision error: %v", err)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("warnings = %v, want 2 entries", res.Warnings)
	}
}

func TestProvisionConflict(t *testing.T) {
	lc, _, mock := newTestLifecycle(t)

	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").WillReturnRows(recordRows(uuid.New(), "acme"))

	if _, err := lc.Provision(context.Background(), "acme"); !errors.Is(err, ErrConflict) {
		t.Fatalf("Provision = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("conflict must stop before any schema work: %v", err)
	}
}

func TestProvisionInvalidDomain(t *testing.T) {
	lc, _, _ := newTestLifecycle(t)

	if _, err := lc.Provision(context.Background(), "www"); !errors.Is(err, ErrInvalidDomain) {
		t.Fatalf("Provision = %v, want ErrInvalidDomain", err)
	}
}

func TestDeprovision(t *testing.T) {
	lc, _, mock := newTestLifecycle(t)

	// Ordered: existence check, registry delete, shared-schema cleanup,
	// schema drop last.
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").WillReturnRows(recordRows(uuid.New(), "acme"))
	mock.ExpectExec(`DELETE FROM tenant WHERE domain`).
		WithArgs("acme").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM tenant_user`).
		WithArgs("acme").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM global_blog_index`).
		WithArgs("acme").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DROP DATABASE IF EXISTS`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := lc.Deprovision(context.Background(), "acme"); err != nil {
		t.Fatalf("Deprovision error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestDeprovisionUnknown(t *testing.T) {
	lc, _, mock := newTestLifecycle(t)

	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("ghost").WillReturnRows(emptyRecordRows())

	if err := lc.Deprovision(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Deprovision = %v, want ErrNotFound", err)
	}
}

func TestDeprovisionDropFailureLeavesOrphan(t *testing.T) {
	lc, _, mock := newTestLifecycle(t)

	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").WillReturnRows(recordRows(uuid.New(), "acme"))
	mock.ExpectExec(`DELETE FROM tenant WHERE domain`).
		WithArgs("acme").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM tenant_user`).
		WithArgs("acme").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM global_blog_index`).
		WithArgs("acme").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP DATABASE IF EXISTS`).
		WillReturnError(errors.New("drop boom"))

	err := lc.Deprovision(context.Background(), "acme")
	var pe *ProvisioningError
	if !errors.As(err, &pe) {
		t.Fatalf("Deprovision = %v, want *ProvisioningError", err)
	}
}

func TestDeprovisionedTenantFailsClosed(t *testing.T) {
	lc, p, mock := newTestLifecycle(t)

	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").WillReturnRows(recordRows(uuid.New(), "acme"))
	mock.ExpectExec(`DELETE FROM tenant WHERE domain`).
		WithArgs("acme").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM tenant_user`).
		WithArgs("acme").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM global_blog_index`).
		WithArgs("acme").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP DATABASE IF EXISTS`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := lc.Deprovision(context.Background(), "acme"); err != nil {
		t.Fatalf("Deprovision error: %v", err)
	}

	// The registry row is gone, so a later access must not resurrect the
	// schema.
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").WillReturnRows(emptyRecordRows())

	if _, err := p.Handle(context.Background(), "acme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Handle after Deprovision = %v, want ErrNotFound", err)
	}
}
