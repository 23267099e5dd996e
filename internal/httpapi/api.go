// Package httpapi mounts the JSON handlers.  Everything here is thin
// plumbing: tenancy decisions happen in the resolver middleware and the
// scope layer, authorization in the auth middleware, and this package only
// decodes requests, calls one service, and encodes the result.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/alnashra/platform/internal/auth"
	"github.com/alnashra/platform/internal/dashboard"
	"github.com/alnashra/platform/internal/scope"
	"github.com/alnashra/platform/internal/tenant"
	"github.com/alnashra/platform/internal/user"
)

// API bundles the services the handlers call.
type API struct {
	scope     *scope.Scope
	registry  *tenant.Registry
	lifecycle *tenant.Lifecycle
	dash      *dashboard.Service
	signer    *auth.Signer
	log       *zap.SugaredLogger
}

// New wires the API.
func New(sc *scope.Scope, reg *tenant.Registry, lc *tenant.Lifecycle, dash *dashboard.Service, signer *auth.Signer, log *zap.SugaredLogger) *API {
	return &API{scope: sc, registry: reg, lifecycle: lc, dash: dash, signer: signer, log: log}
}

// Routes returns the router for mounting under /api.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.Verify(a.signer))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/login", a.login)
	r.Post("/auth/forgot-password", a.forgotPassword)
	r.Post("/auth/reset-password", a.resetPassword)
	r.With(auth.Require(user.RoleAdmin, user.RolePublisher)).Post("/auth/register", a.registerUser)

	r.Route("/users", func(r chi.Router) {
		r.With(auth.Require(user.RoleAdmin)).Get("/", a.listUsers)
		r.With(auth.Require()).Get("/{id}", a.getUser)
		r.With(auth.Require(user.RoleAdmin)).Put("/{id}", a.updateUser)
		r.With(auth.Require(user.RoleAdmin)).Delete("/{id}", a.deleteUser)
	})

	r.Route("/tenants", func(r chi.Router) {
		r.Get("/", a.listTenants)
		r.Group(func(r chi.Router) {
			r.Use(auth.Require(user.RoleAdmin))
			r.Post("/", a.provisionTenant)
			r.Delete("/{domain}", a.deprovisionTenant)
		})
	})

	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", a.listBlogs)
		r.Get("/{id}", a.getBlog)
		r.Group(func(r chi.Router) {
			r.Use(auth.Require())
			r.Post("/", a.createBlog)
			r.Put("/{id}", a.updateBlog)
			r.Delete("/{id}", a.deleteBlog)
			r.Post("/{id}/status", a.setBlogStatus)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", a.listCategories)
		r.Group(func(r chi.Router) {
			r.Use(auth.Require(user.RoleAdmin, user.RolePublisher))
			r.Post("/", a.createCategory)
			r.Delete("/{id}", a.deleteCategory)
		})
	})

	r.Route("/site-settings", func(r chi.Router) {
		r.Get("/", a.getSiteSettings)
		r.With(auth.Require(user.RoleAdmin, user.RolePublisher)).Put("/", a.updateSiteSettings)
	})

	r.Route("/ads", func(r chi.Router) {
		r.Get("/", a.listTenantAds)
		r.With(auth.Require(user.RoleAdmin, user.RolePublisher)).Put("/", a.upsertTenantAd)
		r.Get("/header/{blogID}", a.getHeaderAd)
		r.With(auth.Require(user.RoleAdmin)).Put("/header/{blogID}", a.upsertHeaderAd)
	})

	r.Get("/search", a.searchBlogs)

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(auth.Require(user.RoleAdmin, user.RoleAdminHelper))
		r.Get("/metrics", a.adminMetrics)
		r.Get("/tenants", a.perTenantMetrics)
		r.Get("/blogs", a.recentBlogs)
	})

	return r
}
