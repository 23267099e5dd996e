// Package ads holds the two ad-settings entities with deliberately
// different partitioning:
//
//   - TenantAd      – per-tenant placement settings, one isolated copy per
//     schema, reached through the scope layer like any tenant entity.
//   - HeaderSetting – blog-level header ads keyed only by blog id.  They
//     live in the main schema and are read by the public renderer without
//     knowing which tenant a blog id belongs to, so their repository
//     bypasses tenant routing entirely.
package ads

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Placement names a slot in the page layout.
type Placement string

const (
	PlacementHeader         Placement = "header"
	PlacementSidebar        Placement = "sidebar"
	PlacementUnderHeroImage Placement = "under_hero_image"
	PlacementInArticle      Placement = "in_article"
	PlacementFooter         Placement = "footer"
)

// TenantAd is one placement's settings inside a tenant schema.
type TenantAd struct {
	ID        uuid.UUID      `db:"id"         json:"id"`
	Placement Placement      `db:"placement"  json:"placement"`
	Enabled   bool           `db:"enabled"    json:"enabled"`
	HTML      sql.NullString `db:"html"       json:"html,omitempty"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// HeaderSetting is the blog-level header ad row in the main schema.
type HeaderSetting struct {
	ID        uuid.UUID      `db:"id"         json:"id"`
	BlogID    uuid.UUID      `db:"blog_id"    json:"blogId"`
	Enabled   bool           `db:"enabled"    json:"enabled"`
	HTML      sql.NullString `db:"html"       json:"html,omitempty"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// ErrNotFound covers both entities.
var ErrNotFound = errors.New("ad setting not found")

//
// Per-tenant placements
//

// TenantRepo is bound to one tenant schema's pool.
type TenantRepo struct{ db *sqlx.DB }

// NewTenantRepo binds a TenantRepo to a pool.
func NewTenantRepo(db *sqlx.DB) *TenantRepo { return &TenantRepo{db: db} }

// List returns every placement row for this tenant.
func (r *TenantRepo) List(ctx context.Context) ([]TenantAd, error) {
	const q = `
	    SELECT id, placement, enabled, html, updated_at
	    FROM   tenant_ad_setting
	    ORDER BY placement ASC`
	var rows []TenantAd
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert creates or updates one placement's settings.
func (r *TenantRepo) Upsert(ctx context.Context, placement Placement, enabled bool, html *string) (*TenantAd, error) {
	const q = `
	    INSERT INTO tenant_ad_setting (id, placement, enabled, html)
	    VALUES (?, ?, ?, ?)
	    ON DUPLICATE KEY UPDATE enabled = VALUES(enabled), html = VALUES(html)`
	if _, err := r.db.ExecContext(ctx, q, uuid.New().String(), placement, enabled, html); err != nil {
		return nil, err
	}

	const sel = `
	    SELECT id, placement, enabled, html, updated_at
	    FROM   tenant_ad_setting
	    WHERE  placement = ?
	    LIMIT  1`
	var ad TenantAd
	if err := r.db.GetContext(ctx, &ad, sel, placement); err != nil {
		return nil, err
	}
	return &ad, nil
}

//
// Blog-level header ads (main schema only)
//

// HeaderRepo is always bound to the main pool.
type HeaderRepo struct{ db *sqlx.DB }

// NewHeaderRepo binds a HeaderRepo to the main pool.
func NewHeaderRepo(db *sqlx.DB) *HeaderRepo { return &HeaderRepo{db: db} }

// ByBlog fetches the header setting for one blog id or ErrNotFound.
func (r *HeaderRepo) ByBlog(ctx context.Context, blogID uuid.UUID) (*HeaderSetting, error) {
	const q = `
	    SELECT id, blog_id, enabled, html, updated_at
	    FROM   ad_header_setting
	    WHERE  blog_id = ?
	    LIMIT  1`
	var h HeaderSetting
	if err := r.db.GetContext(ctx, &h, q, blogID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// Upsert creates or updates the header setting for one blog id.
func (r *HeaderRepo) Upsert(ctx context.Context, blogID uuid.UUID, enabled bool, html *string) (*HeaderSetting, error) {
	const q = `
	    INSERT INTO ad_header_setting (id, blog_id, enabled, html)
	    VALUES (?, ?, ?, ?)
	    ON DUPLICATE KEY UPDATE enabled = VALUES(enabled), html = VALUES(html)`
	if _, err := r.db.ExecContext(ctx, q, uuid.New().String(), blogID.String(), enabled, html); err != nil {
		return nil, err
	}
	return r.ByBlog(ctx, blogID)
}
