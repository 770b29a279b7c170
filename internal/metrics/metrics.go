// Package metrics exposes Prometheus counters for the portfolio server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// Metrics holds every counter the server updates. Each instance owns its
// registry, so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	SectionViews       *prometheus.CounterVec
	AssetFallbacks     *prometheus.CounterVec
	ContactSubmissions prometheus.Counter
	ProjectVisits      *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

// New registers the counters and the Go runtime collectors on a fresh
// registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SectionViews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_views_total",
			Help:      "Rendered pages by navigation section",
		}, []string{"section"}),
		AssetFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_fallbacks_total",
			Help:      "Renders that fell back because an optional asset could not be loaded",
		}, []string{"asset"}),
		ContactSubmissions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_submissions_total",
			Help:      "Acknowledged contact form submissions",
		}),
		ProjectVisits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "project_visits_total",
			Help:      "View Project activations by project key",
		}, []string{"project"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, matched route and status",
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
