// Package metrics holds Prometheus instruments used across the platform.
// All collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveTenantPools = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_tenant_pools",
			Help: "Number of tenant connection pools currently open.",
		})

	TenantPoolOpenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_pool_open_total",
			Help: "Cumulative number of tenant pools successfully opened.",
		})

	TenantPoolErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_pool_errors_total",
			Help: "Cumulative number of tenant pool open failures.",
		})

	TenantPoolEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_pool_evict_total",
			Help: "Cumulative number of tenant pools evicted from the cache.",
		})

	TenantProvisionTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_provision_total",
			Help: "Cumulative number of tenants provisioned.",
		})

	TenantDeprovisionTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_deprovision_total",
			Help: "Cumulative number of tenants deprovisioned.",
		})

	FanoutSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tenant_fanout_seconds",
			Help:    "Duration of cross-tenant fan-out operations.",
			Buckets: prometheus.DefBuckets,
		})
)

func init() {
	prometheus.MustRegister(
		ActiveTenantPools,
		TenantPoolOpenTotal,
		TenantPoolErrorsTotal,
		TenantPoolEvictTotal,
		TenantProvisionTotal,
		TenantDeprovisionTotal,
		FanoutSeconds,
	)
}
