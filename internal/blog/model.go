// Package blog is the per-tenant content aggregate: posts, their extra
// pages, and the editorial status workflow.
package blog

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status is the editorial state of a post.  Accepted is the published,
// publicly visible state; reaching it (and leaving it) must keep the shared
// search index in sync (see internal/search).
type Status string

const (
	StatusDrafted           Status = "drafted"
	StatusReadyToPublish    Status = "ready_to_publish"
	StatusAccepted          Status = "accepted"
	StatusDeclined          Status = "declined"
	StatusPendingReapproval Status = "pending_reapproval"
)

// Valid reports whether s is a known workflow state.
func (s Status) Valid() bool {
	switch s {
	case StatusDrafted, StatusReadyToPublish, StatusAccepted,
		StatusDeclined, StatusPendingReapproval:
		return true
	}
	return false
}

// Blog mirrors one row in a tenant's `blog` table.  Tags are stored as a
// comma-separated list, matching the shared index representation.
type Blog struct {
	ID         uuid.UUID      `db:"id"          json:"id"`
	Title      string         `db:"title"       json:"title"`
	Slug       string         `db:"slug"        json:"slug"`
	Content    sql.NullString `db:"content"     json:"content,omitempty"`
	CoverPhoto sql.NullString `db:"cover_photo" json:"coverPhoto,omitempty"`
	Tags       sql.NullString `db:"tags"        json:"tags,omitempty"`
	Status     Status         `db:"status"      json:"status"`
	AuthorID   uuid.UUID      `db:"author_id"   json:"authorId"`
	CategoryID uuid.NullUUID  `db:"category_id" json:"categoryId,omitempty"`
	CreatedAt  time.Time      `db:"created_at"  json:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at"  json:"updatedAt"`
}

// Page is one additional content page of a multi-page post.
type Page struct {
	ID        uuid.UUID      `db:"id"         json:"id"`
	BlogID    uuid.UUID      `db:"blog_id"    json:"blogId"`
	Position  int            `db:"position"   json:"position"`
	Content   sql.NullString `db:"content"    json:"content,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}
