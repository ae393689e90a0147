// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

/*
Package metrics provides Prometheus metrics for Linkpulse.

All collectors are registered on the default registry through promauto and
exposed at /metrics:

	curl http://localhost:5000/metrics

# Available Metrics

HTTP:
  - linkpulse_api_requests_total{method, endpoint, status_code}
  - linkpulse_api_request_duration_seconds{method, endpoint}
  - linkpulse_api_active_requests
  - linkpulse_api_rate_limit_hits_total{endpoint}

Link store:
  - linkpulse_db_query_duration_seconds{operation, table}
  - linkpulse_db_query_errors_total{operation, table, error_type}
  - linkpulse_db_transaction_retries_total{operation}
  - linkpulse_db_connections_in_use

Links and clicks:
  - linkpulse_redirects_total{outcome}: redirected, not_found, expired, error
  - linkpulse_links_created_total{code_type}: generated, custom
  - linkpulse_code_collisions_total
  - linkpulse_clicks_recorded_total{result}
  - linkpulse_click_record_duration_seconds
  - linkpulse_expired_links_deleted_total

GeoIP and circuit breaker:
  - linkpulse_geoip_lookups_total{provider, result}
  - linkpulse_geoip_lookup_duration_seconds{provider}
  - linkpulse_circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - linkpulse_circuit_breaker_requests_total{name, result}
  - linkpulse_circuit_breaker_state_transitions_total{name, from, to}

# Example Alert

	- alert: GeoIPBreakerOpen
	  expr: linkpulse_circuit_breaker_state{name="geoip"} == 2
	  for: 10m

error_type labels on query errors are truncated to 50 characters to bound
label cardinality.
*/
package metrics
