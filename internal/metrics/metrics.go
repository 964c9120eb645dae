// Package metrics holds the Prometheus metrics for the Panchang API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec   // labels: route, method, status
	HTTPDuration *prometheus.HistogramVec // labels: route

	// Calendar engine
	DaysComputed     *prometheus.CounterVec // labels: region
	FestivalMatches  *prometheus.CounterVec // labels: region
	UncoveredLookups prometheus.Counter     // lookups for years outside the dataset
	RegionResolution *prometheus.CounterVec // labels: source=code|timezone|default

	// Dataset
	DatasetEntries prometheus.Gauge
	DatasetInfo    *prometheus.GaugeVec // labels: version

	registry *prometheus.Registry
}

// New creates and registers all metrics on a fresh registry that also
// carries the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "panchang_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		}, []string{"route"}),

		DaysComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_days_computed_total",
			Help: "Calendar day cells assembled",
		}, []string{"region"}),
		FestivalMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_festival_matches_total",
			Help: "Festival entries returned",
		}, []string{"region"}),
		UncoveredLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "panchang_uncovered_lookups_total",
			Help: "Lookups for years the festival dataset does not cover",
		}),
		RegionResolution: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_region_resolution_total",
			Help: "How the request region was chosen",
		}, []string{"source"}),

		DatasetEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "panchang_dataset_entries",
			Help: "Festival entries in the loaded dataset",
		}),
		DatasetInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "panchang_dataset_info",
			Help: "Loaded dataset version (value is always 1)",
		}, []string{"version"}),

		registry: reg,
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.DaysComputed,
		m.FestivalMatches,
		m.UncoveredLookups,
		m.RegionResolution,
		m.DatasetEntries,
		m.DatasetInfo,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// SetDataset records the dataset loaded at startup.
func (m *Metrics) SetDataset(version string, entries int) {
	m.DatasetInfo.Reset()
	m.DatasetInfo.WithLabelValues(version).Set(1)
	m.DatasetEntries.Set(float64(entries))
}
