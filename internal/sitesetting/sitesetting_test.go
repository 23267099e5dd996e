// internal/sitesetting/sitesetting_test.go
//
// Unit-tests for the lazy singleton row.

package sitesetting

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func settingCols() []string {
	return []string{"id", "logo_light_url", "logo_dark_url", "base_color", "site_title", "site_meta", "updated_at"}
}

func TestGetOrCreateInsertsDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := New(sqlx.NewDb(db, "sqlmock"))

	// Empty table: the read misses, a default row goes in, the re-read hits.
	mock.ExpectQuery(`FROM site_setting`).
		WillReturnRows(sqlmock.NewRows(settingCols()))
	mock.ExpectExec(`INSERT INTO site_setting`).
		WithArgs(sqlmock.AnyArg(), DefaultBaseColor).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM site_setting`).
		WillReturnRows(sqlmock.NewRows(settingCols()).
			AddRow(uuid.New().String(), nil, nil, DefaultBaseColor, "", nil, time.Now()))

	s, err := repo.GetOrCreate(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if s.BaseColor != DefaultBaseColor {
		t.Fatalf("base color = %q, want default", s.BaseColor)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestCloneSkipsEmptySource(t *testing.T) {
	from, fromMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer from.Close()
	to, toMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer to.Close()

	fromMock.ExpectQuery(`FROM site_setting`).
		WillReturnRows(sqlmock.NewRows(settingCols()))

	if err := Clone(context.Background(), sqlx.NewDb(from, "sqlmock"), sqlx.NewDb(to, "sqlmock")); err != nil {
		t.Fatalf("Clone with empty source: %v", err)
	}
	if err := toMock.ExpectationsWereMet(); err != nil {
		t.Errorf("no insert may run for an empty source: %v", err)
	}
}
