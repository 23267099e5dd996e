package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/alnashra/platform/internal/tenant"
	"github.com/alnashra/platform/internal/user"
)

// login exchanges email+password for a token scoped to the tenant the
// request arrived on.  Unknown email and wrong password produce the same
// answer.
func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if body.Email == "" || body.Password == "" {
		respondErr(w, fmt.Errorf("%w: email and password are required", errBadRequest))
		return
	}

	users := a.scope.Users()
	u, err := users.ByEmail(r.Context(), body.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		respondErr(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(body.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	key := tenant.KeyFromContext(r.Context())
	roles, err := users.RolesByUser(r.Context(), u.ID.String())
	if err != nil {
		respondErr(w, err)
		return
	}
	role, ok := roles[key]
	if !ok {
		http.Error(w, "no membership for this site", http.StatusForbidden)
		return
	}

	token, err := a.signer.Sign(u.ID.String(), u.Email, role, key)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":    u.ID,
			"email": u.Email,
			"role":  role,
		},
	})
}

// forgotPassword issues a single-use reset token for the account behind
// the given email.  The response is identical whether or not the account
// exists, so the endpoint cannot be used to enumerate emails.  Delivery
// of the reset link is the operator's concern; the handler only records
// the issue.
func (a *API) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if body.Email == "" {
		respondErr(w, fmt.Errorf("%w: email is required", errBadRequest))
		return
	}

	if _, err := a.scope.Users().IssueResetToken(r.Context(), body.Email); err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			respondErr(w, err)
			return
		}
	} else {
		a.log.Infow("password reset issued", "email", body.Email)
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// resetPassword consumes a reset token and sets the new password.  Every
// token failure maps to the same 400 so the caller cannot distinguish
// unknown from expired.
func (a *API) resetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if body.Token == "" || body.Password == "" {
		respondErr(w, fmt.Errorf("%w: token and password are required", errBadRequest))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := a.scope.Users().ConsumeResetToken(r.Context(), body.Token, string(hash)); err != nil {
		if errors.Is(err, user.ErrTokenInvalid) {
			http.Error(w, "invalid or expired token", http.StatusBadRequest)
			return
		}
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}
