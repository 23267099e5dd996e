package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alnashra/platform/internal/ads"
	"github.com/alnashra/platform/internal/tenant"
)

//
// Categories
//

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	repo, err := a.scope.Categories(r.Context(), tenant.KeyFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	items, err := repo.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": items})
}

func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if body.Name == "" || body.Slug == "" {
		respondErr(w, fmt.Errorf("%w: name and slug are required", errBadRequest))
		return
	}

	repo, err := a.scope.Categories(r.Context(), tenant.KeyFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	c, err := repo.Create(r.Context(), body.Name, body.Slug)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"category": c})
}

func (a *API) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	repo, err := a.scope.Categories(r.Context(), tenant.KeyFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := repo.Delete(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//
// Site settings
//

func (a *API) getSiteSettings(w http.ResponseWriter, r *http.Request) {
	repo, err := a.scope.SiteSettings(r.Context(), tenant.KeyFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	s, err := repo.GetOrCreate(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"settings": s})
}

func (a *API) updateSiteSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LogoLight *string `json:"logoLight"`
		LogoDark  *string `json:"logoDark"`
		BaseColor *string `json:"baseColor"`
		SiteTitle *string `json:"siteTitle"`
		SiteMeta  *string `json:"siteMeta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	repo, err := a.scope.SiteSettings(r.Context(), tenant.KeyFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	cur, err := repo.GetOrCreate(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	s, err := repo.Update(r.Context(), cur.ID, body.LogoLight, body.LogoDark, body.BaseColor, body.SiteTitle, body.SiteMeta)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"settings": s})
}

//
// Ads
//

var knownPlacements = map[ads.Placement]struct{}{
	ads.PlacementHeader:         {},
	ads.PlacementSidebar:        {},
	ads.PlacementUnderHeroImage: {},
	ads.PlacementInArticle:      {},
	ads.PlacementFooter:         {},
}

func (a *API) listTenantAds(w http.ResponseWriter, r *http.Request) {
	repo, err := a.scope.TenantAds(r.Context(), tenant.KeyFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	items, err := repo.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ads": items})
}

func (a *API) upsertTenantAd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Placement ads.Placement `json:"placement"`
		Enabled   bool          `json:"enabled"`
		HTML      *string       `json:"html"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if _, ok := knownPlacements[body.Placement]; !ok {
		respondErr(w, fmt.Errorf("%w: unknown placement %q", errBadRequest, body.Placement))
		return
	}

	repo, err := a.scope.TenantAds(r.Context(), tenant.KeyFromContext(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	ad, err := repo.Upsert(r.Context(), body.Placement, body.Enabled, body.HTML)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ad": ad})
}

func (a *API) getHeaderAd(w http.ResponseWriter, r *http.Request) {
	blogID, err := uuid.Parse(chi.URLParam(r, "blogID"))
	if err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s, err := a.scope.HeaderAds().ByBlog(r.Context(), blogID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"headerAd": s})
}

func (a *API) upsertHeaderAd(w http.ResponseWriter, r *http.Request) {
	blogID, err := uuid.Parse(chi.URLParam(r, "blogID"))
	if err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	var body struct {
		Enabled bool    `json:"enabled"`
		HTML    *string `json:"html"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s, err := a.scope.HeaderAds().Upsert(r.Context(), blogID, body.Enabled, body.HTML)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"headerAd": s})
}
