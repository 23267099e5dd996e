// Package database centralises sqlx connection helpers and the schema-level
// primitives tenancy is built on.  The driver is go-sql-driver/mysql; MySQL
// treats DATABASE and SCHEMA as synonyms, so "one schema per tenant" maps to
// one database per tenant on the shared server, reachable through the same
// credentials with a different DSN path.
//
// Public entry points:
//
//	Open(ctx, dsn)                   – quick helper with conservative pool sizes.
//	OpenWithOptions(ctx, dsn, opts)  – fine-grained control.
//	EnsureSchema / DropSchema        – idempotent DDL primitives.
//
// The open helpers Ping the database before returning so callers can fail
// fast during bootstrap.  Callers should Close() the returned *sqlx.DB when
// no longer needed.
package database

import (
	"context"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Options tunes one pool.  Zero values fall back to the Open defaults.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open returns a *sqlx.DB with sane defaults: 15 max open, 5 idle, and a
// 30-minute connection lifetime.  Suitable for the process-wide main pool.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, dsn, Options{})
}

// OpenWithOptions lets callers tune the pool.  The tenant provisioner uses
// it to keep per-tenant resource usage small.
func OpenWithOptions(ctx context.Context, dsn string, opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 15
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime == 0 {
		opts.ConnMaxLifetime = 30 * time.Minute
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
