// Package dashboard aggregates admin views across every tenant schema.
//
// No single query can span schemas, so each view fans out through the
// provisioner, runs the same query shape per tenant, tags rows with their
// source tenant, and merges in memory.  Pagination happens after the merge;
// per-tenant queries fetch full result sets.  That is O(tenant count ×
// per-tenant rows) and fine at this platform's tenant scale.
package dashboard

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/alnashra/platform/internal/blog"
	"github.com/alnashra/platform/internal/tenant"
	"github.com/alnashra/platform/internal/user"
)

// AdminMetrics is the platform-wide headline card.
type AdminMetrics struct {
	TotalTenants      int `json:"totalTenants"`
	TotalUsers        int `json:"totalUsers"`
	TotalBlogs        int `json:"totalBlogs"`
	AcceptedBlogs     int `json:"acceptedBlogs"`
	PendingReapproval int `json:"pendingReapproval"`
	ReadyToPublish    int `json:"readyToPublish"`
}

// TenantMetrics is one tenant's row in the per-tenant table.
type TenantMetrics struct {
	Tenant            string `json:"tenant"`
	Users             int    `json:"users"`
	BlogsTotal        int    `json:"blogsTotal"`
	BlogsAccepted     int    `json:"blogsAccepted"`
	PendingReapproval int    `json:"blogsPendingReapproval"`
	ReadyToPublish    int    `json:"blogsReadyToPublish"`
}

// TaggedBlog is one merged-view row, carrying its source tenant key.
type TaggedBlog struct {
	Tenant string `json:"tenant"`
	blog.Blog
}

// Service runs the aggregation queries.
type Service struct {
	prov *tenant.Provisioner
	reg  *tenant.Registry
	log  *zap.SugaredLogger
}

// New wires the dashboard service.
func New(prov *tenant.Provisioner, reg *tenant.Registry, log *zap.SugaredLogger) *Service {
	return &Service{prov: prov, reg: reg, log: log}
}

// AdminMetrics sums counts across every tenant plus the shared user join.
func (s *Service) AdminMetrics(ctx context.Context) (*AdminMetrics, error) {
	recs, err := s.reg.List(ctx)
	if err != nil {
		return nil, err
	}

	m := AdminMetrics{TotalTenants: len(recs)}

	if m.TotalUsers, err = user.New(s.prov.Main()).CountMemberships(ctx); err != nil {
		return nil, err
	}

	err = s.prov.ForEach(ctx, func(ctx context.Context, key string, db *sqlx.DB) error {
		repo := blog.New(db)
		total, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		accepted, err := repo.CountByStatus(ctx, blog.StatusAccepted)
		if err != nil {
			return err
		}
		pending, err := repo.CountByStatus(ctx, blog.StatusPendingReapproval)
		if err != nil {
			return err
		}
		ready, err := repo.CountByStatus(ctx, blog.StatusReadyToPublish)
		if err != nil {
			return err
		}
		m.TotalBlogs += total
		m.AcceptedBlogs += accepted
		m.PendingReapproval += pending
		m.ReadyToPublish += ready
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// PerTenant returns one metrics row per registered tenant, in registry
// order (domain ascending).
func (s *Service) PerTenant(ctx context.Context) ([]TenantMetrics, error) {
	users := user.New(s.prov.Main())
	var out []TenantMetrics

	err := s.prov.ForEach(ctx, func(ctx context.Context, key string, db *sqlx.DB) error {
		repo := blog.New(db)
		row := TenantMetrics{Tenant: key}
		var err error
		if row.BlogsTotal, err = repo.Count(ctx); err != nil {
			return err
		}
		if row.BlogsAccepted, err = repo.CountByStatus(ctx, blog.StatusAccepted); err != nil {
			return err
		}
		if row.PendingReapproval, err = repo.CountByStatus(ctx, blog.StatusPendingReapproval); err != nil {
			return err
		}
		if row.ReadyToPublish, err = repo.CountByStatus(ctx, blog.StatusReadyToPublish); err != nil {
			return err
		}
		if row.Users, err = users.CountMembershipsByTenant(ctx, key); err != nil {
			return err
		}
		out = append(out, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecentBlogs returns the merged all-tenants view: every tenant's posts,
// tagged with their tenant key, sorted by creation time descending across
// the combined set, then trimmed to limit/offset.
func (s *Service) RecentBlogs(ctx context.Context, limit, offset int) ([]TaggedBlog, error) {
	if limit <= 0 {
		limit = 20
	}

	var merged []TaggedBlog
	err := s.prov.ForEach(ctx, func(ctx context.Context, key string, db *sqlx.DB) error {
		rows, err := blog.New(db).All(ctx)
		if err != nil {
			return err
		}
		for _, b := range rows {
			merged = append(merged, TaggedBlog{Tenant: key, Blog: b})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mergeByRecency(merged, limit, offset), nil
}

// mergeByRecency sorts the combined rows newest-first and applies the page
// window.  An offset past the end yields an empty (non-nil) slice.
func mergeByRecency(merged []TaggedBlog, limit, offset int) []TaggedBlog {
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	if offset >= len(merged) {
		return []TaggedBlog{}
	}
	end := offset + limit
	if end > len(merged) {
		end = len(merged)
	}
	return merged[offset:end]
}
