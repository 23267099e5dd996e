package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a user id or email has no row.
var ErrNotFound = errors.New("user not found")

// ErrConflict is returned when an email is already registered.
var ErrConflict = errors.New("email already registered")

// Repo is always bound to the main pool; user data never partitions.
type Repo struct{ db *sqlx.DB }

// New binds a Repo to the main pool.
func New(db *sqlx.DB) *Repo { return &Repo{db: db} }

const userCols = `id, email, name, password_hash, bio, created_at, updated_at`

// Create inserts a user account.  A duplicate email returns ErrConflict;
// the unique key on user.email backstops concurrent registrations.
func (r *Repo) Create(ctx context.Context, u *User) (*User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	const q = `
	    INSERT INTO user (id, email, name, password_hash, bio)
	    VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		u.ID.String(), u.Email, u.Name, u.PasswordHash, u.Bio); err != nil {
		if isDuplicateEmail(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return r.ByID(ctx, u.ID)
}

// Update patches name and bio; nil fields keep their stored value.  Email
// and password are immutable here: the first identifies the account, the
// second changes only through the reset-token flow.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, name, bio *string) (*User, error) {
	u, err := r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		u.Name = *name
	}
	if bio != nil {
		u.Bio = sql.NullString{String: *bio, Valid: *bio != ""}
	}
	const q = `UPDATE user SET name = ?, bio = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, u.Name, u.Bio, id.String()); err != nil {
		return nil, err
	}
	return r.ByID(ctx, id)
}

// ByID fetches one user or ErrNotFound.
func (r *Repo) ByID(ctx context.Context, id uuid.UUID) (*User, error) {
	const q = `SELECT ` + userCols + ` FROM user WHERE id = ? LIMIT 1`
	var u User
	if err := r.db.GetContext(ctx, &u, q, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ByEmail fetches one user by email or ErrNotFound.
func (r *Repo) ByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT ` + userCols + ` FROM user WHERE email = ? LIMIT 1`
	var u User
	if err := r.db.GetContext(ctx, &u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns every account, newest first.
func (r *Repo) List(ctx context.Context) ([]User, error) {
	const q = `SELECT ` + userCols + ` FROM user ORDER BY created_at DESC`
	var rows []User
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes an account; memberships and reset tokens cascade.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountMemberships returns the number of tenant_user rows, the platform's
// "total users" figure (a user active in two tenants counts twice, matching
// the per-tenant dashboards).
func (r *Repo) CountMemberships(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tenant_user`); err != nil {
		return 0, err
	}
	return n, nil
}

// CountMembershipsByTenant returns tenant_user rows for one tenant key.
func (r *Repo) CountMembershipsByTenant(ctx context.Context, tenant string) (int, error) {
	var n int
	const q = `SELECT COUNT(*) FROM tenant_user WHERE tenant = ?`
	if err := r.db.GetContext(ctx, &n, q, tenant); err != nil {
		return 0, err
	}
	return n, nil
}

// AddMembership grants a role in one tenant.  The unique (tenant, user)
// key makes a second grant for the same pair fail.
func (r *Repo) AddMembership(ctx context.Context, tenant string, userID uuid.UUID, role Role) (*Membership, error) {
	m := Membership{ID: uuid.New(), Tenant: tenant, UserID: userID, Role: role}
	const q = `INSERT INTO tenant_user (id, tenant, user_id, role) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		m.ID.String(), m.Tenant, m.UserID.String(), m.Role); err != nil {
		return nil, err
	}
	return &m, nil
}

// RemoveMembershipsByTenant deletes every membership of one tenant.  Called
// when a tenant is deprovisioned so no dangling grants survive.
func (r *Repo) RemoveMembershipsByTenant(ctx context.Context, tenant string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tenant_user WHERE tenant = ?`, tenant)
	return err
}

// isDuplicateEmail reports MySQL error 1062 (ER_DUP_ENTRY) on the unique
// email key.
func isDuplicateEmail(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
