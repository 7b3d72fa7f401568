package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the BioSIM client.
type Metrics struct {
	// Transport metrics.
	Requests        *prometheus.CounterVec   // labels: api, endpoint={primary,secondary}, outcome={success,error}
	Failovers       *prometheus.CounterVec   // labels: api
	RequestDuration *prometheus.HistogramVec // labels: api

	// Generation cache metrics.
	CacheLookups   *prometheus.CounterVec // labels: result={hit,miss}
	CacheEvictions prometheus.Counter
	CacheEntries   prometheus.Gauge

	// Orchestrator metrics.
	LocationsGenerated prometheus.Counter
	SharedGenerations  prometheus.Counter
	ModelRegistrySize  prometheus.Gauge
}

const namespace = "biosim_client"

// NewMetrics creates and registers all client metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Requests,
		m.Failovers,
		m.RequestDuration,
		m.CacheLookups,
		m.CacheEvictions,
		m.CacheEntries,
		m.LocationsGenerated,
		m.SharedGenerations,
		m.ModelRegistrySize,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "BioSIM HTTP requests by api, endpoint and outcome.",
		}, []string{"api", "endpoint", "outcome"}),
		Failovers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failovers_total",
			Help:      "Requests retried against the secondary endpoint.",
		}, []string{"api"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "End-to-end duration of a fetch including failover.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"api"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_cache_lookups_total",
			Help:      "Generation signature cache lookups by result.",
		}, []string{"result"}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_cache_evictions_total",
			Help:      "Entries removed from the generation cache by size or age.",
		}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation_cache_entries",
			Help:      "Current number of cached generation tokens.",
		}),
		LocationsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locations_generated_total",
			Help:      "Locations sent to the weather generator.",
		}),
		SharedGenerations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shared_generations_total",
			Help:      "Generation batches answered by another caller's in-flight request.",
		}),
		ModelRegistrySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_registry_size",
			Help:      "Number of model names loaded from the service.",
		}),
	}
}
