package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus instruments of the query pipeline. Each
// instance owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	Queries       *prometheus.CounterVec
	ResolverRules *prometheus.CounterVec
	ModelLatency  prometheus.Histogram
	HTTPRequests  *prometheus.CounterVec
	WSConnections prometheus.Gauge
	CatalogItems  prometheus.Gauge
	StoreFailures *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Handled customer queries by outcome.",
		}, []string{"outcome"}),
		ResolverRules: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_matches_total",
			Help:      "Resolver results by winning rule.",
		}, []string{"rule"}),
		ModelLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_latency_seconds",
			Help:      "Latency of model gateway calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Open websocket connections.",
		}),
		CatalogItems: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_items",
			Help:      "Items in the most recently loaded catalog.",
		}),
		StoreFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_store_failures_total",
			Help:      "Session store failures by operation.",
		}, []string{"op"}),
	}
}

func (m *Metrics) ObserveQuery(outcome string) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveResolver(rule string) {
	if m == nil {
		return
	}
	if rule == "" {
		rule = "none"
	}
	m.ResolverRules.WithLabelValues(rule).Inc()
}

func (m *Metrics) ObserveModelLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.ModelLatency.Observe(d.Seconds())
}

func (m *Metrics) ObserveCatalog(items int) {
	if m == nil {
		return
	}
	m.CatalogItems.Set(float64(items))
}

func (m *Metrics) ObserveStoreFailure(op string) {
	if m == nil {
		return
	}
	m.StoreFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
