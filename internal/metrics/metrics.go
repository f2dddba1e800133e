package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RepositoryOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_repository_operations_total",
			Help: "Total number of repository operations processed",
		},
		[]string{"entity", "operation", "success"},
	)

	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_auth_failures_total",
			Help: "Total number of rejected authentication attempts",
		},
		[]string{"strategy"},
	)

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)
)

// RecordOperation counts one repository operation
func RecordOperation(entity, operation string, err error) {
	RepositoryOperationsTotal.WithLabelValues(entity, operation, strconv.FormatBool(err == nil)).Inc()
}
