package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector provides application metrics collection.
// All Record/Observe methods are safe to call on a nil *Collector.
type Collector struct {
	registry *prometheus.Registry

	// Search metrics
	SearchesTotal  *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	SitesEvaluated *prometheus.CounterVec

	// Provider metrics
	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	// Cache metrics
	CacheLookups *prometheus.CounterVec
	CachePurged  prometheus.Counter
}

// NewCollector creates a collector registered on its own registry.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of searches by outcome",
			},
			[]string{"outcome"}, // "match", "no_match", "invalid"
		),

		SearchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of a full search in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
		),

		SitesEvaluated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sites_evaluated_total",
				Help:      "Sites seen by the ranker by pipeline stage",
			},
			[]string{"stage"}, // "scoped", "prefiltered", "failed", "survived"
		),

		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_fetches_total",
				Help:      "Weather provider calls by provider and status",
			},
			[]string{"provider", "status"},
		),

		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_fetch_duration_seconds",
				Help:      "Weather provider call duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10},
			},
			[]string{"provider"},
		),

		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Snapshot cache lookups by result",
			},
			[]string{"result"},
		),

		CachePurged: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_purged_total",
				Help:      "Expired snapshot cache entries removed",
			},
		),
	}
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and custom exporters.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordSearch records a finished search.
func (c *Collector) RecordSearch(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.SearchesTotal.WithLabelValues(outcome).Inc()
	c.SearchDuration.Observe(d.Seconds())
}

// AddSites adds n sites to a pipeline stage counter.
func (c *Collector) AddSites(stage string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.SitesEvaluated.WithLabelValues(stage).Add(float64(n))
}

// ObserveFetch records one provider call.
func (c *Collector) ObserveFetch(provider string, err error, d time.Duration) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.FetchesTotal.WithLabelValues(provider, status).Inc()
	c.FetchDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordCache records a cache hit or miss.
func (c *Collector) RecordCache(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(result).Inc()
}

// RecordPurge records expired cache entries removed by the janitor.
func (c *Collector) RecordPurge(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.CachePurged.Add(float64(n))
}
