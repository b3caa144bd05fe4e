// Package metrics registers the Prometheus collectors served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SessionsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_sessions_saved_total",
			Help: "Sessions persisted, by workflow.",
		},
		[]string{"workflow"},
	)

	SessionsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_sessions_deleted_total",
			Help: "Saved sessions deleted, by workflow.",
		},
		[]string{"workflow"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_validation_failures_total",
			Help: "Rejected entry edits, by workflow and field.",
		},
		[]string{"workflow", "field"},
	)

	StatusUpdateFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_status_update_failures_total",
			Help: "Reference status updates that failed after a save or delete.",
		},
		[]string{"workflow"},
	)

	LiveStores = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reconcile_live_stores",
			Help: "References with a session store held in memory.",
		},
	)
)
