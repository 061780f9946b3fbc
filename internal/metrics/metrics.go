// Package metrics exposes the engine's Prometheus instrumentation. All
// collectors are registered on the default registry via promauto so the
// HTTP facade only needs to mount promhttp.Handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderCalls counts outbound provider searches, admitted and launched.
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placemedia_provider_calls_total",
		Help: "Provider search calls launched, by provider.",
	}, []string{"provider"})

	// ProviderErrors counts failed provider searches by error class.
	ProviderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placemedia_provider_errors_total",
		Help: "Provider search failures, by provider and error class.",
	}, []string{"provider", "class"})

	// RateLimitRejections counts calls refused by the budget tracker.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placemedia_ratelimit_rejections_total",
		Help: "Provider calls skipped because the rate budget was exhausted.",
	}, []string{"provider"})

	// CacheHits counts acquisition requests served from cache.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placemedia_cache_hits_total",
		Help: "Acquisition requests answered from cache, by kind.",
	}, []string{"kind"})

	// CacheMisses counts acquisition requests that went to the ladder.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placemedia_cache_misses_total",
		Help: "Acquisition requests that required a ladder walk, by kind.",
	}, []string{"kind"})

	// CacheErrors counts cache backend failures survived in degraded mode.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placemedia_cache_errors_total",
		Help: "Cache backend failures, by operation.",
	}, []string{"op"})

	// AcquireDuration observes full ladder walk latency.
	AcquireDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "placemedia_acquire_duration_seconds",
		Help:    "End-to-end acquisition latency for cache misses, by kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)
