package blog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a blog id or slug has no row in this
// tenant's schema.
var ErrNotFound = errors.New("blog not found")

// Repo is bound to one schema's pool.  Obtain it through the scope layer
// for the current tenant; never cache it across requests.
type Repo struct{ db *sqlx.DB }

// New binds a Repo to a pool.
func New(db *sqlx.DB) *Repo { return &Repo{db: db} }

const selectCols = `id, title, slug, content, cover_photo, tags, status,
	       author_id, category_id, created_at, updated_at`

// Create inserts a new post in drafted state and returns it.
func (r *Repo) Create(ctx context.Context, b *Blog) (*Blog, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = StatusDrafted
	}
	const q = `
	    INSERT INTO blog
	        (id, title, slug, content, cover_photo, tags, status, author_id, category_id)
	    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		b.ID.String(), b.Title, b.Slug, b.Content, b.CoverPhoto, b.Tags,
		b.Status, b.AuthorID.String(), nullUUID(b.CategoryID))
	if err != nil {
		return nil, err
	}
	return r.ByID(ctx, b.ID)
}

// ByID fetches one post or ErrNotFound.
func (r *Repo) ByID(ctx context.Context, id uuid.UUID) (*Blog, error) {
	const q = `SELECT ` + selectCols + ` FROM blog WHERE id = ? LIMIT 1`
	var b Blog
	if err := r.db.GetContext(ctx, &b, q, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// BySlug fetches one post by its unique slug or ErrNotFound.
func (r *Repo) BySlug(ctx context.Context, slug string) (*Blog, error) {
	const q = `SELECT ` + selectCols + ` FROM blog WHERE slug = ? LIMIT 1`
	var b Blog
	if err := r.db.GetContext(ctx, &b, q, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns posts newest-first.  status == "" lists every state.
func (r *Repo) List(ctx context.Context, status Status, limit, offset int) ([]Blog, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []Blog
	if status == "" {
		const q = `SELECT ` + selectCols + `
		    FROM blog ORDER BY created_at DESC LIMIT ? OFFSET ?`
		if err := r.db.SelectContext(ctx, &rows, q, limit, offset); err != nil {
			return nil, err
		}
		return rows, nil
	}
	const q = `SELECT ` + selectCols + `
	    FROM blog WHERE status = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &rows, q, status, limit, offset); err != nil {
		return nil, err
	}
	return rows, nil
}

// All returns every post newest-first, unbounded.  Cross-tenant dashboard
// merges page after combining, so per-tenant queries fetch the full set.
func (r *Repo) All(ctx context.Context) ([]Blog, error) {
	const q = `SELECT ` + selectCols + ` FROM blog ORDER BY created_at DESC`
	var rows []Blog
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update rewrites the mutable content fields and returns the fresh row.
func (r *Repo) Update(ctx context.Context, b *Blog) (*Blog, error) {
	const q = `
	    UPDATE blog
	    SET    title = ?, slug = ?, content = ?, cover_photo = ?, tags = ?, category_id = ?
	    WHERE  id = ?`
	res, err := r.db.ExecContext(ctx, q,
		b.Title, b.Slug, b.Content, b.CoverPhoto, b.Tags, nullUUID(b.CategoryID), b.ID.String())
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.ByID(ctx, b.ID)
}

// SetStatus moves a post through the workflow.  Search-index upkeep is the
// caller's job (internal/httpapi publishes through internal/search).
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Blog, error) {
	const q = `UPDATE blog SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id.String())
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.ByID(ctx, id)
}

// Delete removes a post and its pages (FK-free schemas, so two statements).
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM blog_page WHERE blog_id = ?`, id.String()); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of posts.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM blog`); err != nil {
		return 0, err
	}
	return n, nil
}

// CountByStatus returns the number of posts in one workflow state.
func (r *Repo) CountByStatus(ctx context.Context, status Status) (int, error) {
	var n int
	const q = `SELECT COUNT(*) FROM blog WHERE status = ?`
	if err := r.db.GetContext(ctx, &n, q, status); err != nil {
		return 0, err
	}
	return n, nil
}

// Pages returns a post's extra pages in position order.
func (r *Repo) Pages(ctx context.Context, blogID uuid.UUID) ([]Page, error) {
	const q = `
	    SELECT id, blog_id, position, content, created_at
	    FROM   blog_page
	    WHERE  blog_id = ?
	    ORDER BY position ASC`
	var rows []Page
	if err := r.db.SelectContext(ctx, &rows, q, blogID.String()); err != nil {
		return nil, err
	}
	return rows, nil
}

// AddPage appends a page at the given position.
func (r *Repo) AddPage(ctx context.Context, p *Page) (*Page, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	const q = `INSERT INTO blog_page (id, blog_id, position, content) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, p.ID.String(), p.BlogID.String(), p.Position, p.Content); err != nil {
		return nil, err
	}
	return p, nil
}

// nullUUID renders a nullable uuid as a driver value.
func nullUUID(u uuid.NullUUID) any {
	if !u.Valid {
		return nil
	}
	return u.UUID.String()
}
