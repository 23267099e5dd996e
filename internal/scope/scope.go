// Package scope is the single chokepoint between services and storage:
// every repository is obtained here with (entity accessor, tenant key), and
// nothing else in the codebase binds a repository to a pool.
//
// The tenant-scoped accessors route "main" to the shared pool and any other
// key through the provisioner's lazy cache.  The Main* accessors serve
// entities that are shared regardless of caller context: users, the tenant
// registry, the cross-tenant index, and blog-level header ads keyed only by
// blog id.  Those bypass tenant resolution entirely.
//
// Repositories are cheap per-call wrappers around a cached pool.  Callers
// must not retain one beyond a single logical operation: pools are owned
// and recycled centrally by the provisioner.
package scope

import (
	"context"

	"github.com/alnashra/platform/internal/ads"
	"github.com/alnashra/platform/internal/blog"
	"github.com/alnashra/platform/internal/category"
	"github.com/alnashra/platform/internal/search"
	"github.com/alnashra/platform/internal/sitesetting"
	"github.com/alnashra/platform/internal/tenant"
	"github.com/alnashra/platform/internal/user"
)

// Scope resolves (entity, tenant key) → repository.  Construct once in
// main over the shared provisioner.
type Scope struct {
	prov *tenant.Provisioner
}

// New wires a Scope over the provisioner.
func New(prov *tenant.Provisioner) *Scope { return &Scope{prov: prov} }

//
// Tenant-scoped entities
//

// Blogs returns the blog repository for one tenant key.
func (s *Scope) Blogs(ctx context.Context, key string) (*blog.Repo, error) {
	db, err := s.prov.Handle(ctx, key)
	if err != nil {
		return nil, err
	}
	return blog.New(db), nil
}

// Categories returns the category repository for one tenant key.
func (s *Scope) Categories(ctx context.Context, key string) (*category.Repo, error) {
	db, err := s.prov.Handle(ctx, key)
	if err != nil {
		return nil, err
	}
	return category.New(db), nil
}

// SiteSettings returns the site-setting repository for one tenant key.
func (s *Scope) SiteSettings(ctx context.Context, key string) (*sitesetting.Repo, error) {
	db, err := s.prov.Handle(ctx, key)
	if err != nil {
		return nil, err
	}
	return sitesetting.New(db), nil
}

// TenantAds returns the per-tenant ad repository for one tenant key.
func (s *Scope) TenantAds(ctx context.Context, key string) (*ads.TenantRepo, error) {
	db, err := s.prov.Handle(ctx, key)
	if err != nil {
		return nil, err
	}
	return ads.NewTenantRepo(db), nil
}

//
// Always-shared entities (main schema, no tenant routing)
//

// Users returns the shared user/membership repository.
func (s *Scope) Users() *user.Repo { return user.New(s.prov.Main()) }

// Index returns the shared cross-tenant search index repository.
func (s *Scope) Index() *search.Repo { return search.New(s.prov.Main()) }

// HeaderAds returns the blog-level header ad repository.
func (s *Scope) HeaderAds() *ads.HeaderRepo { return ads.NewHeaderRepo(s.prov.Main()) }
