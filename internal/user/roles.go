// internal/user/roles.go
//
// Small query helpers for role checks.
//
// Context
// -------
// Role grants live entirely in the shared schema's `tenant_user` join, so
// "which tenants can this user act in" and "does this user hold role R in
// tenant T" are global queries that never touch a tenant schema.  These
// helpers are thin; middleware may wrap the results in a per-request cache.
package user

import (
	"context"
	"database/sql"
	"errors"
)

// RolesByUser returns tenant → role for every grant the user holds.
func (r *Repo) RolesByUser(ctx context.Context, userID string) (map[string]Role, error) {
	const q = `SELECT tenant, role FROM tenant_user WHERE user_id = ?`

	rows := make([]struct {
		Tenant string `db:"tenant"`
		Role   Role   `db:"role"`
	}, 0, 4)
	if err := r.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, err
	}

	out := make(map[string]Role, len(rows))
	for _, row := range rows {
		out[row.Tenant] = row.Role
	}
	return out, nil
}

// HasRole reports whether the user holds one of the candidate roles in the
// given tenant.  Empty candidates returns false, nil.
func (r *Repo) HasRole(ctx context.Context, userID, tenant string, candidates ...Role) (bool, error) {
	if len(candidates) == 0 {
		return false, nil
	}

	// Construct the IN clause placeholders dynamically.
	placeholders := make([]byte, 0, len(candidates)*2)
	args := make([]any, 0, len(candidates)+2)
	args = append(args, userID, tenant)
	for i, c := range candidates {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, c)
	}

	q := `SELECT 1
	        FROM tenant_user
	       WHERE user_id = ?
	         AND tenant  = ?
	         AND role IN (` + string(placeholders) + `)
	       LIMIT 1`

	var dummy int
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
