// internal/database/schema_test.go
//
// Unit-tests for identifier quoting and the schema-level DDL helpers.

package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent("tenant_acme"); got != "`tenant_acme`" {
		t.Fatalf("quoteIdent = %s", got)
	}
	// Embedded backticks are doubled, never terminate the identifier.
	if got := quoteIdent("a`b"); got != "`a``b`" {
		t.Fatalf("quoteIdent with backtick = %s", got)
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(
		"CREATE DATABASE IF NOT EXISTS `tenant_acme` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci",
	)).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := EnsureSchema(context.Background(), sqlx.NewDb(db, "sqlmock"), "tenant_acme"); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestDropSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DROP DATABASE IF EXISTS `tenant_acme`")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := DropSchema(context.Background(), sqlx.NewDb(db, "sqlmock"), "tenant_acme"); err != nil {
		t.Fatalf("DropSchema error: %v", err)
	}
}
