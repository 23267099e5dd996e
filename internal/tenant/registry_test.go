// internal/tenant/registry_test.go
//
// Unit-tests for the tenant registry using sqlmock.
//
// Run: go test ./internal/tenant -v

package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func sampleTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newMockRegistry(t *testing.T) (*Registry, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRegistry(sqlx.NewDb(db, "sqlmock"), nil), mock
}

func recordRows(id uuid.UUID, domain string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "domain", "created_at"}).
		AddRow(id.String(), domain, sampleTime())
}

func TestRegistryByDomain(t *testing.T) {
	reg, mock := newMockRegistry(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").
		WillReturnRows(recordRows(id, "acme"))

	rec, err := reg.ByDomain(context.Background(), "acme")
	if err != nil {
		t.Fatalf("ByDomain error: %v", err)
	}
	if rec.ID != id || rec.Domain != "acme" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRegistryByDomainNotFound(t *testing.T) {
	reg, mock := newMockRegistry(t)

	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "domain", "created_at"}))

	if _, err := reg.ByDomain(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ByDomain = %v, want ErrNotFound", err)
	}
}

func TestRegistryCreate(t *testing.T) {
	reg, mock := newMockRegistry(t)

	// Pre-check misses, insert succeeds, re-fetch returns the fresh row.
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"id", "domain", "created_at"}))
	mock.ExpectExec(`INSERT INTO tenant`).
		WithArgs(sqlmock.AnyArg(), "acme").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").
		WillReturnRows(recordRows(uuid.New(), "acme"))

	rec, err := reg.Create(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Domain != "acme" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRegistryCreateConflict(t *testing.T) {
	reg, mock := newMockRegistry(t)

	// Pre-check finds the existing row; no insert is attempted.
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").
		WillReturnRows(recordRows(uuid.New(), "acme"))

	if _, err := reg.Create(context.Background(), "acme"); !errors.Is(err, ErrConflict) {
		t.Fatalf("Create = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRegistryCreateConflictUnderRace(t *testing.T) {
	reg, mock := newMockRegistry(t)

	// Pre-check misses but the unique key fires: a concurrent writer won.
	mock.ExpectQuery(`SELECT id, domain, created_at`).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"id", "domain", "created_at"}))
	mock.ExpectExec(`INSERT INTO tenant`).
		WithArgs(sqlmock.AnyArg(), "acme").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'acme' for key 'tenant.domain'"})

	if _, err := reg.Create(context.Background(), "acme"); !errors.Is(err, ErrConflict) {
		t.Fatalf("Create = %v, want ErrConflict", err)
	}
}

func TestRegistryCreateInvalidDomain(t *testing.T) {
	reg, _ := newMockRegistry(t)

	// Validation failures never reach the database.
	for _, d := range []string{"", "main", "www", "Bad.Domain"} {
		if _, err := reg.Create(context.Background(), d); !errors.Is(err, ErrInvalidDomain) {
			t.Errorf("Create(%q) = %v, want ErrInvalidDomain", d, err)
		}
	}
}

func TestRegistryDeleteNotFound(t *testing.T) {
	reg, mock := newMockRegistry(t)

	mock.ExpectExec(`DELETE FROM tenant`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := reg.Delete(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete = %v, want ErrNotFound", err)
	}
}
