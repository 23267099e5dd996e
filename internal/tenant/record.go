package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Record mirrors one row in the shared-schema `tenant` table.  A row exists
// for every provisioned tenant except "main"; the domain is immutable after
// creation (renaming is unsupported).
type Record struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Domain    string    `db:"domain"     json:"domain"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
