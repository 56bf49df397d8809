// README: Prometheus collectors for the elevation pipeline and coverage runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors shared by the elevation pipeline, the
// sample cache, and the coverage orchestrator.
type Metrics struct {
	BatchesFetched prometheus.Counter
	RetryAttempts  prometheus.Counter
	RateLimitHits  prometheus.Counter
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	Computations   *prometheus.CounterVec // labelled by terminal outcome
}

// New registers the collectors on reg. A nil reg yields working but
// unexported collectors, which keeps tests free of global registry state.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		BatchesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyline_elevation_batches_fetched_total",
			Help: "Elevation batches fetched from the provider.",
		}),
		RetryAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyline_elevation_retry_attempts_total",
			Help: "Batch retries after a provider throttle response.",
		}),
		RateLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyline_elevation_rate_limit_hits_total",
			Help: "Throttle responses received from the provider.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyline_elevation_cache_hits_total",
			Help: "Elevation lookups served from the sample cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyline_elevation_cache_misses_total",
			Help: "Elevation lookups that fell through to the provider.",
		}),
		Computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skyline_coverage_computations_total",
			Help: "Coverage computations by terminal outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.BatchesFetched, m.RetryAttempts, m.RateLimitHits,
		m.CacheHits, m.CacheMisses, m.Computations)
	return m
}
