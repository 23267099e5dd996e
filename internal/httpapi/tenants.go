package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// listTenants returns id + domain for every registered tenant, domain
// ascending.  Public: the frontend uses it for the publisher directory.
func (a *API) listTenants(w http.ResponseWriter, r *http.Request) {
	recs, err := a.registry.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	type item struct {
		ID     string `json:"id"`
		Domain string `json:"domain"`
	}
	out := make([]item, 0, len(recs))
	for _, t := range recs {
		out = append(out, item{ID: t.ID.String(), Domain: t.Domain})
	}
	respondJSON(w, http.StatusOK, map[string]any{"tenants": out})
}

func (a *API) provisionTenant(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Domain string `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	res, err := a.lifecycle.Provision(r.Context(), body.Domain)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (a *API) deprovisionTenant(w http.ResponseWriter, r *http.Request) {
	if err := a.lifecycle.Deprovision(r.Context(), chi.URLParam(r, "domain")); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
