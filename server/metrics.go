package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the render pass collectors on a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	renders   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	artifacts prometheus.Counter
}

// NewMetrics creates the collectors and registers them together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sfhousing",
			Name:      "renders_total",
			Help:      "Render passes by page and HTTP status.",
		}, []string{"page", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sfhousing",
			Name:      "render_duration_seconds",
			Help:      "Duration of a load-compute-draw pass.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"page"}),
		artifacts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sfhousing",
			Name:      "artifacts_written_total",
			Help:      "Chart images written to the output directory.",
		}),
	}
	m.registry.MustRegister(
		m.renders,
		m.duration,
		m.artifacts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(page string, status int, start time.Time) {
	m.renders.WithLabelValues(page, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(page).Observe(time.Since(start).Seconds())
}

func (m *Metrics) artifactWritten() {
	m.artifacts.Inc()
}
