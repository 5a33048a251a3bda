// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TripJoins counts join attempts by outcome
	// (ok, full, already_joined, self_join_rejected).
	TripJoins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nomadnova",
		Name:      "trip_joins_total",
		Help:      "Trip join attempts by outcome.",
	}, []string{"outcome"})

	// HTTPRequests counts handled HTTP requests.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nomadnova",
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests by method and status class.",
	}, []string{"method", "status"})

	// HTTPDuration observes request latency in seconds.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nomadnova",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)
