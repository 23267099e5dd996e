// internal/user/seed.go
//
// First-boot root account.
//
// Context
// -------
// A fresh deployment has no rows in `user` or `tenant_user`, so no login
// can succeed and no admin exists to register anyone.  When the operator
// configures a root email and password, main() calls EnsureRootAdmin once
// at startup; after the first boot the account exists and the call is a
// no-op, so the credentials can be rotated or removed from config.
package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// EnsureRootAdmin creates the root account with an ADMIN grant in the main
// tenant unless the email is already registered.  Returns true when it
// seeded.
func (r *Repo) EnsureRootAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := r.ByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	u, err := r.Create(ctx, &User{Email: email, Name: "Root", PasswordHash: string(hash)})
	if err != nil {
		// A concurrent boot may have seeded between the check and the
		// insert; that outcome is the one we wanted.
		if errors.Is(err, ErrConflict) {
			return false, nil
		}
		return false, fmt.Errorf("seed root account: %w", err)
	}
	if _, err := r.AddMembership(ctx, "main", u.ID, RoleAdmin); err != nil {
		return false, fmt.Errorf("seed root grant: %w", err)
	}
	return true, nil
}
