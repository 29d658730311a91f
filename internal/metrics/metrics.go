// Package metrics exposes Prometheus instrumentation for the scan
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all scanner metrics.
type Registry struct {
	ScanDuration     prometheus.Histogram
	ScansTotal       prometheus.Counter
	ScanResults      prometheus.Gauge
	ProviderRequests *prometheus.CounterVec
	ProviderFailures *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}

// NewRegistry creates the metric set and registers it with reg. Pass
// prometheus.DefaultRegisterer for the default registry.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "detsc_scan_duration_seconds",
			Help:    "Duration of complete scan invocations in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}),
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "detsc_scans_total",
			Help: "Total number of scan invocations",
		}),
		ScanResults: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "detsc_scan_results",
			Help: "Result count of the most recent scan",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "detsc_provider_requests_total",
			Help: "Provider fan-out calls by provider and category",
		}, []string{"provider", "category"}),
		ProviderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "detsc_provider_failures_total",
			Help: "Provider calls degraded to empty results, by provider and category",
		}, []string{"provider", "category"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "detsc_quote_cache_hits_total",
			Help: "Quote cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "detsc_quote_cache_misses_total",
			Help: "Quote cache misses",
		}),
	}

	reg.MustRegister(
		r.ScanDuration, r.ScansTotal, r.ScanResults,
		r.ProviderRequests, r.ProviderFailures,
		r.CacheHits, r.CacheMisses,
	)
	return r
}

// ObserveScan records one finished scan.
func (r *Registry) ObserveScan(duration time.Duration, results int) {
	if r == nil {
		return
	}
	r.ScansTotal.Inc()
	r.ScanDuration.Observe(duration.Seconds())
	r.ScanResults.Set(float64(results))
}

// RecordProviderCall records a fan-out call and whether it failed.
func (r *Registry) RecordProviderCall(provider, category string, failed bool) {
	if r == nil {
		return
	}
	r.ProviderRequests.WithLabelValues(provider, category).Inc()
	if failed {
		r.ProviderFailures.WithLabelValues(provider, category).Inc()
	}
}

// RecordCache records a quote-cache lookup.
func (r *Registry) RecordCache(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.CacheHits.Inc()
	} else {
		r.CacheMisses.Inc()
	}
}
