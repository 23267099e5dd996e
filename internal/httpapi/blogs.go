package httpapi

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alnashra/platform/internal/auth"
	"github.com/alnashra/platform/internal/blog"
	"github.com/alnashra/platform/internal/search"
	"github.com/alnashra/platform/internal/tenant"
)

// blogPayload is the write shape shared by create and update.
type blogPayload struct {
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	Content    *string `json:"content"`
	CoverPhoto *string `json:"coverPhoto"`
	Tags       *string `json:"tags"`
	CategoryID *string `json:"categoryId"`
}

func (p *blogPayload) apply(b *blog.Blog) error {
	b.Title = p.Title
	b.Slug = p.Slug
	b.Content = nullStr(p.Content)
	b.CoverPhoto = nullStr(p.CoverPhoto)
	b.Tags = nullStr(p.Tags)
	if p.CategoryID != nil && *p.CategoryID != "" {
		id, err := uuid.Parse(*p.CategoryID)
		if err != nil {
			return fmt.Errorf("%w: categoryId: %v", errBadRequest, err)
		}
		b.CategoryID = uuid.NullUUID{UUID: id, Valid: true}
	} else {
		b.CategoryID = uuid.NullUUID{}
	}
	return nil
}

func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (a *API) listBlogs(w http.ResponseWriter, r *http.Request) {
	repo, err := a.scope.Blogs(r.Context(), tenant.KeyFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}

	status := blog.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondErr(w, fmt.Errorf("%w: unknown status %q", errBadRequest, status))
		return
	}
	limit, offset := pagination(r, 20)

	items, err := repo.List(r.Context(), status, limit, offset)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"blogs": items})
}

func (a *API) getBlog(w http.ResponseWriter, r *http.Request) {
	repo, err := a.scope.Blogs(r.Context(), tenant.KeyFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	b, err := repo.ByID(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	pages, err := repo.Pages(r.Context(), b.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"blog": b, "pages": pages})
}

func (a *API) createBlog(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	authorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		respondErr(w, fmt.Errorf("%w: subject: %v", errBadRequest, err))
		return
	}

	var p blogPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if p.Title == "" || p.Slug == "" {
		respondErr(w, fmt.Errorf("%w: title and slug are required", errBadRequest))
		return
	}

	repo, err := a.scope.Blogs(r.Context(), tenant.KeyFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}

	b := &blog.Blog{AuthorID: authorID}
	if err := p.apply(b); err != nil {
		respondErr(w, err)
		return
	}
	created, err := repo.Create(r.Context(), b)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"blog": created})
}

func (a *API) updateBlog(w http.ResponseWriter, r *http.Request) {
	key := tenant.KeyFromContext(r.Context())
	repo, err := a.scope.Blogs(r.Context(), key)
	if err != nil {
		respondErr(w, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	b, err := repo.ByID(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}

	var p blogPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := p.apply(b); err != nil {
		respondErr(w, err)
		return
	}

	updated, err := repo.Update(r.Context(), b)
	if err != nil {
		respondErr(w, err)
		return
	}

	// An edit to a published post must be mirrored into the shared index,
	// or public search keeps serving the stale title/tags.
	if updated.Status == blog.StatusAccepted {
		if err := a.scope.Index().Upsert(r.Context(), indexEntry(updated, key)); err != nil {
			a.log.Errorw("index refresh failed", "tenant", key, "blog", updated.ID, "err", err)
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"blog": updated})
}

func (a *API) deleteBlog(w http.ResponseWriter, r *http.Request) {
	key := tenant.KeyFromContext(r.Context())
	repo, err := a.scope.Blogs(r.Context(), key)
	if err != nil {
		respondErr(w, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	if err := repo.Delete(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	if err := a.scope.Index().Remove(r.Context(), id, key); err != nil {
		a.log.Errorw("index removal failed", "tenant", key, "blog", id, "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// setBlogStatus moves a post through the editorial workflow and keeps the
// shared index in lockstep: entering accepted upserts the entry, leaving it
// removes the entry.
func (a *API) setBlogStatus(w http.ResponseWriter, r *http.Request) {
	key := tenant.KeyFromContext(r.Context())
	repo, err := a.scope.Blogs(r.Context(), key)
	if err != nil {
		respondErr(w, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	var body struct {
		Status blog.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if !body.Status.Valid() {
		respondErr(w, fmt.Errorf("%w: unknown status %q", errBadRequest, body.Status))
		return
	}

	prev, err := repo.ByID(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	updated, err := repo.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		respondErr(w, err)
		return
	}

	switch {
	case updated.Status == blog.StatusAccepted:
		if err := a.scope.Index().Upsert(r.Context(), indexEntry(updated, key)); err != nil {
			a.log.Errorw("index publish failed", "tenant", key, "blog", id, "err", err)
		}
	case prev.Status == blog.StatusAccepted:
		if err := a.scope.Index().Remove(r.Context(), id, key); err != nil {
			a.log.Errorw("index unpublish failed", "tenant", key, "blog", id, "err", err)
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"blog": updated})
}

func indexEntry(b *blog.Blog, key string) *search.Entry {
	return &search.Entry{
		BlogID:     b.ID,
		AuthorID:   b.AuthorID,
		Tenant:     key,
		Title:      b.Title,
		CoverPhoto: b.CoverPhoto,
		Tags:       b.Tags,
	}
}

// pagination reads limit/offset query parameters, clamping to sane values.
func pagination(r *http.Request, defLimit int) (limit, offset int) {
	limit = defLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
