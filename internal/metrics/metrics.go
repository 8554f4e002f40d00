package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codepad_executions_total",
			Help: "Total number of execute requests by language and outcome",
		},
		[]string{"language", "outcome"}, // outcome: "accepted", "rejected", "error"
	)

	PollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codepad_poll_attempts",
			Help:    "Status fetches needed before a submission reached a terminal status",
			Buckets: []float64{1, 2, 3, 5, 8, 10, 15, 20},
		},
	)

	PollTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codepad_poll_timeouts_total",
			Help: "Total number of submissions that exhausted the poll attempt budget",
		},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codepad_upstream_request_duration_seconds",
			Help:    "Latency of requests to the remote execution service",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "result"}, // endpoint: "submit", "fetch"; result: "ok", "error"
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codepad_rate_limit_hits_total",
			Help: "Total number of requests rejected by rate limiter",
		},
	)
)
