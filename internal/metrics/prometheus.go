package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatcher metrics
var (
	ItemsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paubox_items_processed_total",
			Help: "Total number of input items processed",
		},
		[]string{"operation", "outcome"}, // success, error
	)

	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paubox_executions_total",
			Help: "Total number of dispatcher executions",
		},
		[]string{"operation", "result"}, // completed, aborted
	)
)

// Paubox API metrics
var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paubox_api_request_duration_seconds",
			Help:    "Duration of Paubox API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	APIErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paubox_api_errors_total",
			Help: "Total number of failed Paubox API requests",
		},
		[]string{"operation", "status"}, // status is "network" when no response arrived
	)
)

// HTTP host metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of requests served by the API server",
		},
		[]string{"method", "path", "status"},
	)

	HTTPAuthFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_auth_failures_total",
			Help: "Total number of rejected bearer tokens",
		},
	)
)
