// Package sitesetting holds each tenant's singleton branding row: logos,
// base color, site title and meta.  The row is created lazily on first read
// so a freshly provisioned tenant (or one whose clone step failed) still
// serves sensible defaults.
package sitesetting

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DefaultBaseColor is an HSL triple, the format the frontend's brand-scale
// generator consumes.
const DefaultBaseColor = "222 47% 11%"

// Setting mirrors the singleton `site_setting` row in one tenant schema.
type Setting struct {
	ID           uuid.UUID      `db:"id"             json:"id"`
	LogoLightURL sql.NullString `db:"logo_light_url" json:"logoLightUrl,omitempty"`
	LogoDarkURL  sql.NullString `db:"logo_dark_url"  json:"logoDarkUrl,omitempty"`
	BaseColor    string         `db:"base_color"     json:"baseColor"`
	SiteTitle    string         `db:"site_title"     json:"siteTitle"`
	SiteMeta     sql.NullString `db:"site_meta"      json:"siteMeta,omitempty"`
	UpdatedAt    time.Time      `db:"updated_at"     json:"updatedAt"`
}

// ErrNotFound is returned by Update when the row id does not exist.
var ErrNotFound = errors.New("site setting not found")

// Repo is bound to one schema's pool.
type Repo struct{ db *sqlx.DB }

// New binds a Repo to a pool.
func New(db *sqlx.DB) *Repo { return &Repo{db: db} }

const selectCols = `id, logo_light_url, logo_dark_url, base_color, site_title, site_meta, updated_at`

// GetOrCreate returns the singleton row, inserting a default one when the
// table is empty.
func (r *Repo) GetOrCreate(ctx context.Context) (*Setting, error) {
	const q = `SELECT ` + selectCols + ` FROM site_setting LIMIT 1`
	var s Setting
	err := r.db.GetContext(ctx, &s, q)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	s = Setting{ID: uuid.New(), BaseColor: DefaultBaseColor}
	const ins = `INSERT INTO site_setting (id, base_color) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, ins, s.ID.String(), s.BaseColor); err != nil {
		return nil, err
	}
	return r.GetOrCreate(ctx)
}

// Update patches the given fields.  Nil pointers leave columns untouched.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, logoLight, logoDark, baseColor, siteTitle, siteMeta *string) (*Setting, error) {
	const q = `
	    UPDATE site_setting
	    SET    logo_light_url = COALESCE(?, logo_light_url),
	           logo_dark_url  = COALESCE(?, logo_dark_url),
	           base_color     = COALESCE(?, base_color),
	           site_title     = COALESCE(?, site_title),
	           site_meta      = COALESCE(?, site_meta)
	    WHERE  id = ?`
	res, err := r.db.ExecContext(ctx, q, logoLight, logoDark, baseColor, siteTitle, siteMeta, id.String())
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.GetOrCreate(ctx)
}

// Clone copies main's singleton row into a new tenant schema with a fresh
// id.  Missing source row is not an error; the target simply starts from
// defaults on first read.
func Clone(ctx context.Context, from, to *sqlx.DB) error {
	const q = `SELECT ` + selectCols + ` FROM site_setting LIMIT 1`
	var s Setting
	if err := from.GetContext(ctx, &s, q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	const ins = `
	    INSERT INTO site_setting
	        (id, logo_light_url, logo_dark_url, base_color, site_title, site_meta)
	    VALUES (?, ?, ?, ?, ?, ?)`
	_, err := to.ExecContext(ctx, ins,
		uuid.New().String(), s.LogoLightURL, s.LogoDarkURL, s.BaseColor, s.SiteTitle, s.SiteMeta)
	return err
}
