package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/veraxsec/mailguard/pkg/ai"
)

// Metrics holds the prometheus instruments for serve mode.
type Metrics struct {
	registry       *prometheus.Registry
	analysesTotal  *prometheus.CounterVec
	entitiesTotal  *prometheus.CounterVec
	analysisLength prometheus.Histogram
}

// NewMetrics creates and registers the serve-mode metrics on a private
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mailguard",
			Name:      "analyses_total",
			Help:      "Analyses performed, by resulting risk level.",
		}, []string{"risk_level"}),
		entitiesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mailguard",
			Name:      "entities_detected_total",
			Help:      "Entities detected, by label and severity.",
		}, []string{"label", "severity"}),
		analysisLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mailguard",
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one analysis.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}),
	}

	m.registry.MustRegister(m.analysesTotal, m.entitiesTotal, m.analysisLength)
	return m
}

// Observe records one completed analysis.
func (m *Metrics) Observe(report ai.Report, elapsed time.Duration) {
	m.analysesTotal.WithLabelValues(report.RiskLevel).Inc()
	for _, entity := range report.Entities {
		m.entitiesTotal.WithLabelValues(entity.Label, string(entity.Severity)).Inc()
	}
	m.analysisLength.Observe(elapsed.Seconds())
}

// Handler exposes the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
