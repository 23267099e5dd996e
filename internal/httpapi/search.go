package httpapi

import (
	"net/http"
)

// searchBlogs queries the shared index: one table scan instead of a
// fan-out across every tenant schema.
func (a *API) searchBlogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 20)
	entries, err := a.scope.Index().Query(r.Context(), r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": entries})
}

func (a *API) adminMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := a.dash.AdminMetrics(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

func (a *API) perTenantMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := a.dash.PerTenant(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tenants": m})
}

func (a *API) recentBlogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 20)
	items, err := a.dash.RecentBlogs(r.Context(), limit, offset)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"blogs": items})
}
