// Package metrics defines the Prometheus collectors for the containers and the
// term index, and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	RehashTotal         *prometheus.CounterVec
	BucketCount         *prometheus.GaugeVec
	TermsRecordedTotal  *prometheus.CounterVec
	PagesIndexedTotal   *prometheus.CounterVec
	IndexLookupsTotal   *prometheus.CounterVec
	IndexLookupDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests usually want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RehashTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "map_rehash_total",
				Help: "Total number of hash map rehashes by map name.",
			},
			[]string{"map"},
		),
		BucketCount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "map_bucket_count",
				Help: "Current bucket count of a hash map.",
			},
			[]string{"map"},
		),
		TermsRecordedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "index_terms_recorded_total",
				Help: "Total term occurrences recorded by backend.",
			},
			[]string{"backend"},
		),
		PagesIndexedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "index_pages_indexed_total",
				Help: "Total pages indexed by backend.",
			},
			[]string{"backend"},
		),
		IndexLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "index_lookups_total",
				Help: "Total term lookups by backend and operation.",
			},
			[]string{"backend", "op"},
		),
		IndexLookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "index_lookup_duration_seconds",
				Help:    "Term lookup latency in seconds.",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"backend"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.RehashTotal,
			m.BucketCount,
			m.TermsRecordedTotal,
			m.PagesIndexedTotal,
			m.IndexLookupsTotal,
			m.IndexLookupDuration,
		)
	}
	return m
}

// RehashHook returns a callback for hashmap.WithRehashHook that counts
// rehashes and tracks the bucket count of the named map.
func (m *Metrics) RehashHook(name string) func(from, to int) {
	rehashes := m.RehashTotal.WithLabelValues(name)
	buckets := m.BucketCount.WithLabelValues(name)
	return func(from, to int) {
		rehashes.Inc()
		buckets.Set(float64(to))
	}
}

// Handler returns the Prometheus scrape HTTP handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
