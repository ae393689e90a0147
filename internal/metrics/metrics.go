// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Link store query performance (DuckDB or Postgres)
// - API endpoint latency and throughput
// - Redirect outcomes and click recording
// - GeoIP provider lookups and the circuit breaker around them

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkpulse_db_query_duration_seconds",
			Help:    "Duration of link store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkpulse_db_query_errors_total",
			Help: "Total number of link store query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBTransactionRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkpulse_db_transaction_retries_total",
			Help: "Total number of transactions retried after a write conflict",
		},
		[]string{"operation"},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "linkpulse_db_connections_in_use",
			Help: "Current number of database connections in use",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkpulse_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkpulse_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "linkpulse_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkpulse_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Link Metrics
	RedirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkpulse_redirects_total",
			Help: "Total number of short code resolutions by outcome",
		},
		[]string{"outcome"}, // "redirected", "not_found", "expired", "error"
	)

	LinksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkpulse_links_created_total",
			Help: "Total number of short links created",
		},
		[]string{"code_type"}, // "generated", "custom"
	)

	CodeCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "linkpulse_code_collisions_total",
			Help: "Total number of generated short codes rejected by the uniqueness constraint",
		},
	)

	ClicksRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkpulse_clicks_recorded_total",
			Help: "Total number of click events by recording result",
		},
		[]string{"result"}, // "success", "failure"
	)

	ClickRecordDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "linkpulse_click_record_duration_seconds",
			Help:    "Duration of click recording including geo lookup",
			Buckets: prometheus.DefBuckets,
		},
	)

	ExpiredLinksDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "linkpulse_expired_links_deleted_total",
			Help: "Total number of expired links removed by cleanup",
		},
	)

	// GeoIP Metrics
	GeoIPLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkpulse_geoip_lookups_total",
			Help: "Total number of GeoIP lookups by provider and result",
		},
		[]string{"provider", "result"}, // result: "success", "failure", "local", "skipped"
	)

	GeoIPLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkpulse_geoip_lookup_duration_seconds",
			Help:    "Duration of GeoIP provider calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"provider"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "linkpulse_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkpulse_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "linkpulse_circuit_breaker_consecutive_failures",
			Help: "Current consecutive failures counted by the circuit breaker",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkpulse_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "linkpulse_app_info",
			Help: "Application build and runtime information",
		},
		[]string{"version", "driver"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRedirect records the outcome of one short code resolution.
func RecordRedirect(outcome string) {
	RedirectsTotal.WithLabelValues(outcome).Inc()
}

// RecordClick records a click recording attempt.
func RecordClick(duration time.Duration, err error) {
	ClickRecordDuration.Observe(duration.Seconds())
	if err != nil {
		ClicksRecorded.WithLabelValues("failure").Inc()
		return
	}
	ClicksRecorded.WithLabelValues("success").Inc()
}

// RecordGeoIPLookup records one provider call.
func RecordGeoIPLookup(provider string, duration time.Duration, err error) {
	GeoIPLookupDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		GeoIPLookups.WithLabelValues(provider, "failure").Inc()
		return
	}
	GeoIPLookups.WithLabelValues(provider, "success").Inc()
}
