// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submit results.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

var (
	SubmitTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submit_total",
			Help: "Contact form submits by result (accepted or rejected).",
		}, []string{"result"})

	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_validation_failures_total",
			Help: "Failing rules seen on rejected submits, by field.",
		}, []string{"field"})

	FieldChangesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_field_changes_total",
			Help: "Cumulative number of accepted field change events.",
		})

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "contact_active_sessions",
			Help: "Number of contact form instances currently held in memory.",
		})

	SessionEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_session_evictions_total",
			Help: "Cumulative number of form instances evicted (idle or LRU).",
		})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"code"})
)

func init() {
	prometheus.MustRegister(
		SubmitTotal,
		ValidationFailuresTotal,
		FieldChangesTotal,
		ActiveSessions,
		SessionEvictTotal,
		HTTPRequestsTotal,
	)
}
