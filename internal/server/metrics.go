package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	findings  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// newMetrics uses a private registry so several servers can live in one process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "doclint_lint_requests_total",
			Help: "Lint requests by response format and outcome",
		}, []string{"format", "outcome"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "doclint_findings_total",
			Help: "Errors and warnings reported, by kind",
		}, []string{"severity", "kind"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "doclint_lint_duration_seconds",
			Help:    "Time spent linting one uploaded document",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"format"}),
	}
	m.registry.MustRegister(m.requests, m.findings, m.durations)
	return m
}
