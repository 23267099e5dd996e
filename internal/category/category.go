// Package category is the per-tenant taxonomy.  Each tenant schema holds
// its own `category` table; rows are cloned from main at provisioning so
// new tenants start with a sensible default set.
package category

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Category mirrors one row in a tenant's `category` table.
type Category struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Slug      string    `db:"slug"       json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ErrNotFound is returned when a category id has no row.
var ErrNotFound = errors.New("category not found")

// Repo is bound to one schema's pool.  Obtain it through the scope layer;
// never cache it across requests.
type Repo struct{ db *sqlx.DB }

// New binds a Repo to a pool.
func New(db *sqlx.DB) *Repo { return &Repo{db: db} }

// List returns every category, name ascending.
func (r *Repo) List(ctx context.Context) ([]Category, error) {
	const q = `
	    SELECT id, name, slug, created_at
	    FROM   category
	    ORDER BY name ASC`
	var rows []Category
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ByID fetches one category or ErrNotFound.
func (r *Repo) ByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	const q = `
	    SELECT id, name, slug, created_at
	    FROM   category
	    WHERE  id = ?
	    LIMIT  1`
	var c Category
	if err := r.db.GetContext(ctx, &c, q, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a category and returns it.
func (r *Repo) Create(ctx context.Context, name, slug string) (*Category, error) {
	c := Category{ID: uuid.New(), Name: name, Slug: slug, CreatedAt: time.Now()}
	const q = `INSERT INTO category (id, name, slug) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, c.ID.String(), c.Name, c.Slug); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a category.  ErrNotFound when nothing was deleted.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM category WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id.String())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CloneAll copies every category row from one schema to another with fresh
// ids.  Used by tenant provisioning to seed defaults from main.
func CloneAll(ctx context.Context, from, to *sqlx.DB) error {
	src := New(from)
	rows, err := src.List(ctx)
	if err != nil {
		return err
	}
	dst := New(to)
	for _, c := range rows {
		if _, err := dst.Create(ctx, c.Name, c.Slug); err != nil {
			return err
		}
	}
	return nil
}
