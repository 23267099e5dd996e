// Package search owns the denormalized cross-tenant blog index in the main
// schema.  Public search hits this one table instead of fanning out across
// every tenant schema; the price is write-side duplication, paid
// synchronously whenever a post enters or leaves the published state.
package search

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Entry is one row of `global_blog_index`.  Tags are a comma-separated
// list, mirroring the per-tenant blog row it denormalizes.
type Entry struct {
	ID         uuid.UUID      `db:"id"          json:"id"`
	BlogID     uuid.UUID      `db:"blog_id"     json:"blogId"`
	AuthorID   uuid.UUID      `db:"author_id"   json:"authorId"`
	Tenant     string         `db:"tenant"      json:"tenant"`
	Title      string         `db:"title"       json:"title"`
	CoverPhoto sql.NullString `db:"cover_photo" json:"coverPhoto,omitempty"`
	Tags       sql.NullString `db:"tags"        json:"tags,omitempty"`
	CreatedAt  time.Time      `db:"created_at"  json:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at"  json:"updatedAt"`
}

// Repo is always bound to the main pool.
type Repo struct{ db *sqlx.DB }

// New binds a Repo to the main pool.
func New(db *sqlx.DB) *Repo { return &Repo{db: db} }

const cols = `id, blog_id, author_id, tenant, title, cover_photo, tags, created_at, updated_at`

// Upsert inserts or refreshes the index entry for (blogID, tenant).  Called
// when a post is published or an already-published post is edited.
func (r *Repo) Upsert(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	const q = `
	    INSERT INTO global_blog_index
	        (id, blog_id, author_id, tenant, title, cover_photo, tags)
	    VALUES (?, ?, ?, ?, ?, ?, ?)
	    ON DUPLICATE KEY UPDATE
	        author_id = VALUES(author_id), title = VALUES(title),
	        cover_photo = VALUES(cover_photo), tags = VALUES(tags)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID.String(), e.BlogID.String(), e.AuthorID.String(),
		e.Tenant, e.Title, e.CoverPhoto, e.Tags)
	return err
}

// Remove deletes the index entry for (blogID, tenant).  Called when a post
// leaves the published state or is deleted.  Removing an absent entry is
// not an error.
func (r *Repo) Remove(ctx context.Context, blogID uuid.UUID, tenant string) error {
	const q = `DELETE FROM global_blog_index WHERE blog_id = ? AND tenant = ?`
	_, err := r.db.ExecContext(ctx, q, blogID.String(), tenant)
	return err
}

// RemoveByTenant drops every entry for one tenant.  Called by tenant
// deprovisioning so the shared index never references a dead schema.
func (r *Repo) RemoveByTenant(ctx context.Context, tenant string) error {
	const q = `DELETE FROM global_blog_index WHERE tenant = ?`
	_, err := r.db.ExecContext(ctx, q, tenant)
	return err
}

// Query searches titles and tags, newest first.  Empty term lists the most
// recent published posts across all tenants.
func (r *Repo) Query(ctx context.Context, term string, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []Entry
	if term == "" {
		const q = `SELECT ` + cols + `
		    FROM global_blog_index ORDER BY created_at DESC LIMIT ? OFFSET ?`
		if err := r.db.SelectContext(ctx, &rows, q, limit, offset); err != nil {
			return nil, err
		}
		return rows, nil
	}
	const q = `SELECT ` + cols + `
	    FROM   global_blog_index
	    WHERE  title LIKE ? OR tags LIKE ?
	    ORDER BY created_at DESC
	    LIMIT ? OFFSET ?`
	like := "%" + term + "%"
	if err := r.db.SelectContext(ctx, &rows, q, like, like, limit, offset); err != nil {
		return nil, err
	}
	return rows, nil
}
