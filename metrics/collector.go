// Package metrics exposes dispatch, upstream and cache metrics in the
// Prometheus format, plus per-upstream latency quantiles.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ZaguanLabs/ltproxy"
	"github.com/ZaguanLabs/ltproxy/cache"
)

// Config holds metric naming and bucket settings.
type Config struct {
	Namespace       string
	DurationBuckets []float64 // Attempt duration buckets in seconds
}

// Collector records dispatcher activity. It implements ltproxy.Observer.
//
// Metrics:
//   - <ns>_cache_lookups_total{result="hit|miss"}
//   - <ns>_cache_evictions_total{reason="capacity|expired"}
//   - <ns>_cache_entries (only when TrackCacheSize is called)
//   - <ns>_upstream_attempts_total{upstream, outcome}
//   - <ns>_upstream_attempt_duration_seconds{upstream}
//   - <ns>_translations_total{outcome}
type Collector struct {
	registry *prometheus.Registry
	latency  *LatencyTracker

	cacheLookups    *prometheus.CounterVec
	cacheEvictions  *prometheus.CounterVec
	attempts        *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	translations    *prometheus.CounterVec

	namespace string
}

var _ ltproxy.Observer = (*Collector)(nil)

// NewCollector creates and registers the metrics. If registry is nil a new
// one is created.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "ltproxy"
	}
	if len(cfg.DurationBuckets) == 0 {
		// Upstream latencies up to the 8s default timeout
		cfg.DurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8}
	}

	c := &Collector{
		registry:  registry,
		latency:   NewLatencyTracker(DefaultRelativeAccuracy),
		namespace: cfg.Namespace,

		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "cache_lookups_total",
			Help:      "Total cache lookups by result",
		}, []string{"result"}),

		cacheEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "cache_evictions_total",
			Help:      "Total cache evictions by reason",
		}, []string{"reason"}),

		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "upstream_attempts_total",
			Help:      "Total upstream attempts by upstream and outcome",
		}, []string{"upstream", "outcome"}),

		attemptDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "upstream_attempt_duration_seconds",
			Help:      "Upstream attempt duration in seconds",
			Buckets:   cfg.DurationBuckets,
		}, []string{"upstream"}),

		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "translations_total",
			Help:      "Total translation requests by outcome",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		c.cacheLookups,
		c.cacheEvictions,
		c.attempts,
		c.attemptDuration,
		c.translations,
	)

	return c
}

// CacheLookup records a cache hit or miss.
func (c *Collector) CacheLookup(hit bool) {
	if hit {
		c.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	c.cacheLookups.WithLabelValues("miss").Inc()
}

// Attempt records one upstream call.
func (c *Collector) Attempt(rec ltproxy.AttemptRecord) {
	c.attempts.WithLabelValues(rec.URL, string(rec.Outcome)).Inc()
	c.attemptDuration.WithLabelValues(rec.URL).Observe(rec.Duration.Seconds())
	c.latency.Record(rec.URL, rec.Duration)
}

// Dispatched records how a translation request ended.
func (c *Collector) Dispatched(outcome ltproxy.DispatchOutcome) {
	c.translations.WithLabelValues(string(outcome)).Inc()
}

// RecordEviction records a cache eviction. Pass it to cache.WithEvictionHook.
func (c *Collector) RecordEviction(reason cache.EvictReason) {
	c.cacheEvictions.WithLabelValues(string(reason)).Inc()
}

// TrackCacheSize registers a gauge reading the current cache size from size.
func (c *Collector) TrackCacheSize(size func() int) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Name:      "cache_entries",
		Help:      "Current number of entries in the cache",
	}, func() float64 { return float64(size()) }))
}

// Latency returns the per-upstream latency tracker.
func (c *Collector) Latency() *LatencyTracker {
	return c.latency
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
