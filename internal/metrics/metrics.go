package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gravity_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gravity_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RelayStreams = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gravity_relay_streams_total",
			Help: "Total number of generation streams by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	RelayStreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gravity_relay_stream_duration_seconds",
			Help:    "Duration of generation streams in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	WizardSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gravity_wizard_saves_total",
			Help: "Total number of wizard draft saves by result",
		},
		[]string{"result"},
	)
)

const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)
