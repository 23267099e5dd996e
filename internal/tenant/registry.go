// internal/tenant/registry.go
//
// The authoritative tenant list, backed by the shared-schema `tenant`
// table.  Pure data access; schema creation and default cloning live in
// lifecycle.go.
package tenant

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Registry reads and writes TenantRecords on the main pool.
type Registry struct {
	db       *sqlx.DB
	reserved map[string]struct{}
}

// NewRegistry binds a Registry to the main pool.  extraReserved comes from
// config and is folded into the built-in reserved set.
func NewRegistry(db *sqlx.DB, extraReserved []string) *Registry {
	return &Registry{db: db, reserved: reservedSet(extraReserved)}
}

// List returns every registered tenant, sorted by domain ascending.  Used
// for enumeration and cross-tenant fan-out.
func (r *Registry) List(ctx context.Context) ([]Record, error) {
	const q = `
	    SELECT id, domain, created_at
	    FROM   tenant
	    ORDER BY domain ASC`
	var rows []Record
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ByDomain fetches a single record, or ErrNotFound.
func (r *Registry) ByDomain(ctx context.Context, domain string) (*Record, error) {
	const q = `
	    SELECT id, domain, created_at
	    FROM   tenant
	    WHERE  domain = ?
	    LIMIT  1`
	var rec Record
	if err := r.db.GetContext(ctx, &rec, q, domain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Create validates the (already normalized) domain and inserts its record.
// A duplicate insert surfaces as ErrConflict whether it is caught by the
// pre-check or by the unique key under a race.
func (r *Registry) Create(ctx context.Context, domain string) (*Record, error) {
	if err := ValidateDomain(domain, r.reserved); err != nil {
		return nil, err
	}

	if _, err := r.ByDomain(ctx, domain); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	rec := Record{ID: uuid.New(), Domain: domain}
	const q = `INSERT INTO tenant (id, domain) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, q, rec.ID.String(), rec.Domain); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	created, err := r.ByDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Delete removes the registry row.  ErrNotFound when nothing was deleted.
func (r *Registry) Delete(ctx context.Context, domain string) error {
	const q = `DELETE FROM tenant WHERE domain = ?`
	res, err := r.db.ExecContext(ctx, q, domain)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateKey recognises MariaDB/MySQL error 1062 (ER_DUP_ENTRY).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
