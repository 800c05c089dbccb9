// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRuns counts synchronization runs by outcome (ok, fetch, decode, commit, other).
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starship_sync_runs_total",
		Help: "Synchronization runs by outcome.",
	}, []string{"outcome"})

	// SyncRecords counts upstream records by what the engine did with them.
	SyncRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starship_sync_records_total",
		Help: "Upstream starship records by result (created, skipped).",
	}, []string{"result"})

	SyncManufacturersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "starship_sync_manufacturers_created_total",
		Help: "Manufacturers created by synchronization.",
	})

	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "starship_sync_duration_seconds",
		Help:    "Wall time of a synchronization run.",
		Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120},
	})

	// UpstreamRequests counts upstream page requests by HTTP status code or "error".
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starship_upstream_requests_total",
		Help: "Upstream page requests by status.",
	}, []string{"status"})

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "starship_circuit_breaker_state",
		Help: "Upstream circuit breaker state (0 closed, 1 half-open, 2 open).",
	}, []string{"name"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"method", "route"})
)
