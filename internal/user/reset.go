// internal/user/reset.go
//
// Password reset tokens.
//
// Context
// -------
// Reset tokens live in the main schema next to the accounts they belong
// to.  A token is single use: consuming it updates the password hash and
// deletes the row in one transaction, so a replayed link finds nothing.
// Expired rows are ignored on lookup and swept on the next issue for the
// same account.
package user

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrTokenInvalid covers unknown, expired, and already-consumed tokens.
// Handlers map all three to the same response so the error does not leak
// which case applied.
var ErrTokenInvalid = errors.New("reset token invalid or expired")

// ResetTokenTTL is how long a reset link stays usable.
const ResetTokenTTL = time.Hour

// IssueResetToken creates a reset token for the account behind email and
// returns it with the plain token string set.  Earlier tokens for the same
// account are removed first; only the newest link works.
func (r *Repo) IssueResetToken(ctx context.Context, email string) (*ResetToken, error) {
	u, err := r.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	t := ResetToken{
		ID:        uuid.New(),
		UserID:    u.ID,
		Token:     hex.EncodeToString(buf),
		ExpiresAt: time.Now().UTC().Add(ResetTokenTTL),
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_token WHERE user_id = ?`, u.ID.String()); err != nil {
		return nil, err
	}
	const q = `
	    INSERT INTO password_reset_token (id, user_id, token, expires_at)
	    VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		t.ID.String(), t.UserID.String(), t.Token, t.ExpiresAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// ConsumeResetToken validates token, sets the owner's password hash, and
// deletes the token.  Unknown, expired, and reused tokens all return
// ErrTokenInvalid.
func (r *Repo) ConsumeResetToken(ctx context.Context, token, passwordHash string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var t ResetToken
	const q = `
	    SELECT id, user_id, token, expires_at, created_at
	    FROM password_reset_token WHERE token = ? LIMIT 1 FOR UPDATE`
	if err := tx.GetContext(ctx, &t, q, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTokenInvalid
		}
		return err
	}
	if time.Now().UTC().After(t.ExpiresAt) {
		return ErrTokenInvalid
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE user SET password_hash = ? WHERE id = ?`,
		passwordHash, t.UserID.String()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM password_reset_token WHERE id = ?`, t.ID.String()); err != nil {
		return err
	}
	return tx.Commit()
}
