package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alnashra/platform/internal/auth"
	"github.com/alnashra/platform/internal/tenant"
	"github.com/alnashra/platform/internal/user"
)

//
// Accounts and role grants.  Accounts are global rows in the main schema;
// a register call creates the account plus one role grant in a tenant.
//

var knownRoles = map[user.Role]bool{
	user.RoleAdmin:       true,
	user.RolePublisher:   true,
	user.RoleEditor:      true,
	user.RoleAdminHelper: true,
}

// registerUser creates an account and grants it a role.  Publishers can
// only grant inside their own tenant; admins may name any tenant and
// default to the one the request arrived on.
func (a *API) registerUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string    `json:"email"`
		Name     string    `json:"name"`
		Password string    `json:"password"`
		Bio      *string   `json:"bio"`
		Role     user.Role `json:"role"`
		Tenant   string    `json:"tenant"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if body.Email == "" || body.Password == "" || body.Role == "" {
		respondErr(w, fmt.Errorf("%w: email, password and role are required", errBadRequest))
		return
	}
	if !knownRoles[body.Role] {
		respondErr(w, fmt.Errorf("%w: unknown role %q", errBadRequest, body.Role))
		return
	}

	claims, _ := auth.FromContext(r.Context())
	grantTenant := body.Tenant
	if grantTenant == "" {
		grantTenant = tenant.KeyFromContext(r.Context())
	}
	if claims.Role != user.RoleAdmin && grantTenant != claims.Tenant {
		http.Error(w, "cannot grant outside your own site", http.StatusForbidden)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		respondErr(w, err)
		return
	}

	users := a.scope.Users()
	u, err := users.Create(r.Context(), &user.User{
		Email:        body.Email,
		Name:         body.Name,
		PasswordHash: string(hash),
		Bio:          nullStr(body.Bio),
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	m, err := users.AddMembership(r.Context(), grantTenant, u.ID, body.Role)
	if err != nil {
		respondErr(w, err)
		return
	}

	a.log.Infow("user registered", "email", u.Email, "tenant", grantTenant, "role", body.Role)
	respondJSON(w, http.StatusCreated, map[string]any{"user": u, "membership": m})
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	items, err := a.scope.Users().List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": items})
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, fmt.Errorf("%w: bad user id", errBadRequest))
		return
	}
	u, err := a.scope.Users().ByID(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, fmt.Errorf("%w: bad user id", errBadRequest))
		return
	}
	var body struct {
		Name *string `json:"name"`
		Bio  *string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	u, err := a.scope.Users().Update(r.Context(), id, body.Name, body.Bio)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, fmt.Errorf("%w: bad user id", errBadRequest))
		return
	}
	if err := a.scope.Users().Delete(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
