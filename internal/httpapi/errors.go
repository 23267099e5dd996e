// internal/httpapi/errors.go
//
// The single place typed errors become HTTP status codes.  Handlers return
// errors; respondErr classifies them.  The core packages never see HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/alnashra/platform/internal/ads"
	"github.com/alnashra/platform/internal/blog"
	"github.com/alnashra/platform/internal/category"
	"github.com/alnashra/platform/internal/sitesetting"
	"github.com/alnashra/platform/internal/tenant"
	"github.com/alnashra/platform/internal/user"
)

// errBadRequest wraps handler-level input errors (malformed JSON, bad
// uuids, unknown statuses).
var errBadRequest = errors.New("bad request")

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tenant.ErrInvalidDomain), errors.Is(err, errBadRequest):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, tenant.ErrConflict), errors.Is(err, user.ErrConflict):
		respondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, tenant.ErrNotFound),
		errors.Is(err, blog.ErrNotFound),
		errors.Is(err, category.ErrNotFound),
		errors.Is(err, sitesetting.ErrNotFound),
		errors.Is(err, ads.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		// ProvisioningError, ConnectivityError, and everything unclassified.
		zap.S().Errorw("request failed", "err", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
