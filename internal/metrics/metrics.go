package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors used across the app.
type Metrics struct {
	IncomingMessages *prometheus.CounterVec
	Replies          *prometheus.CounterVec
	RetrievalScore   prometheus.Histogram
	EmbedLatency     *prometheus.HistogramVec
	Errors           *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a metrics bundle registered on its own registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		IncomingMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incoming_messages_total",
			Help:      "Inbound chat messages by classified intent.",
		}, []string{"intent"}),
		Replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Outbound replies by category.",
		}, []string{"category"}),
		RetrievalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_best_score",
			Help:      "Best similarity score per knowledge-base retrieval.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		EmbedLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embed_latency_seconds",
			Help:      "Embedding call latency by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Internal errors by stage.",
		}, []string{"stage"}),
		registry: reg,
	}

	reg.MustRegister(m.IncomingMessages, m.Replies, m.RetrievalScore, m.EmbedLatency, m.Errors)
	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
