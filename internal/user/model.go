// Package user holds the global account entities: users, the tenant↔user
// role join, and password reset tokens.  All three live only in the main
// schema, since "which tenants can this user act in" is a global question,
// while the content a user creates lives in each tenant's own schema.
package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role scopes what a user may do inside one tenant.
type Role string

const (
	RoleAdmin       Role = "ADMIN"        // main-tenant super-user
	RolePublisher   Role = "PUBLISHER"    // owner of a sub-tenant
	RoleEditor      Role = "EDITOR"       // content helper inside a tenant
	RoleAdminHelper Role = "ADMIN_HELPER" // main-tenant assistant, limited
)

// User mirrors one row of the shared `user` table.
type User struct {
	ID           uuid.UUID      `db:"id"            json:"id"`
	Email        string         `db:"email"         json:"email"`
	Name         string         `db:"name"          json:"name"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Bio          sql.NullString `db:"bio"           json:"bio,omitempty"`
	CreatedAt    time.Time      `db:"created_at"    json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at"    json:"updatedAt"`
}

// Membership is one (tenant, user, role) row; the pair (tenant, user) is
// unique, so a user holds exactly one role per tenant.
type Membership struct {
	ID     uuid.UUID `db:"id"      json:"id"`
	Tenant string    `db:"tenant"  json:"tenant"`
	UserID uuid.UUID `db:"user_id" json:"userId"`
	Role   Role      `db:"role"    json:"role"`
}

// ResetToken is a single-use password reset credential.
type ResetToken struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	UserID    uuid.UUID `db:"user_id"    json:"userId"`
	Token     string    `db:"token"      json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
