// internal/user/repo_test.go
//
// Unit-tests for the account repository using sqlmock.
//
// Run: go test ./internal/user -v

package user

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

func TestCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO user`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.co'"})

	_, err := repo.Create(context.Background(), &User{Email: "a@b.co", PasswordHash: "h"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	repo, mock := newMockRepo(t)
	uid := uuid.New()
	name := "New Name"

	mock.ExpectQuery(`FROM user WHERE id`).
		WithArgs(uid.String()).
		WillReturnRows(userRow(uid, "a@b.co"))
	mock.ExpectExec(`UPDATE user SET name`).
		WithArgs("New Name", sqlmock.AnyArg(), uid.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM user WHERE id`).
		WithArgs(uid.String()).
		WillReturnRows(userRow(uid, "a@b.co"))

	if _, err := repo.Update(context.Background(), uid, &name, nil); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpdateUnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	uid := uuid.New()

	mock.ExpectQuery(`FROM user WHERE id`).
		WithArgs(uid.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.Update(context.Background(), uid, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEnsureRootAdminSeeds(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM user WHERE email`).
		WithArgs("root@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO user`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM user WHERE id`).
		WillReturnRows(userRow(uuid.New(), "root@example.com"))
	mock.ExpectExec(`INSERT INTO tenant_user`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	seeded, err := repo.EnsureRootAdmin(context.Background(), "root@example.com", "rootPass123")
	if err != nil {
		t.Fatalf("EnsureRootAdmin error: %v", err)
	}
	if !seeded {
		t.Fatal("seeded = false on empty deployment")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestEnsureRootAdminIdempotent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM user WHERE email`).
		WithArgs("root@example.com").
		WillReturnRows(userRow(uuid.New(), "root@example.com"))

	seeded, err := repo.EnsureRootAdmin(context.Background(), "root@example.com", "rootPass123")
	if err != nil {
		t.Fatalf("EnsureRootAdmin error: %v", err)
	}
	if seeded {
		t.Fatal("seeded = true for an existing account")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
