// internal/database/schema.go
//
// Idempotent schema-level DDL.  MySQL cannot parameterize identifiers, so
// the schema name is interpolated after backtick quoting; callers are
// responsible for having validated it against the tenant slug pattern
// first (the provisioner and lifecycle both do).
package database

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

// quoteIdent backtick-quotes an identifier, doubling any embedded backtick.
// Validated tenant slugs cannot contain one; this guards misuse elsewhere.
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// EnsureSchema creates the named schema when absent.  Safe to call for a
// schema that already exists, which is what makes racing first-accesses and
// client retries of provisioning harmless.
func EnsureSchema(ctx context.Context, db *sqlx.DB, name string) error {
	_, err := db.ExecContext(ctx,
		"CREATE DATABASE IF NOT EXISTS "+quoteIdent(name)+
			" CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci")
	return err
}

// DropSchema destroys the named schema and everything in it.  Deprovisioning
// only; there is no recovery path.
func DropSchema(ctx context.Context, db *sqlx.DB, name string) error {
	_, err := db.ExecContext(ctx, "DROP DATABASE IF EXISTS "+quoteIdent(name))
	return err
}
