// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "clicks", "connection refused"))

	RecordDBQuery("SELECT", "urls", 10*time.Millisecond, nil)
	RecordDBQuery("INSERT", "clicks", 5*time.Millisecond, errors.New("connection refused"))

	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "clicks", "connection refused"))
	if after != before+1 {
		t.Errorf("DBQueryErrors = %v, want %v", after, before+1)
	}
}

// TestRecordDBQuery_ErrorTruncation verifies error messages are truncated at 50 chars
func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	long := strings.Repeat("x", 100)
	RecordDBQuery("DELETE", "truncation_test", time.Millisecond, errors.New(long))

	truncated := testutil.ToFloat64(DBQueryErrors.WithLabelValues("DELETE", "truncation_test", long[:50]))
	if truncated != 1 {
		t.Errorf("truncated label count = %v, want 1", truncated)
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/{shortCode}", "302"))
	RecordAPIRequest("GET", "/{shortCode}", "302", 3*time.Millisecond)
	RecordAPIRequest("GET", "/{shortCode}", "302", 4*time.Millisecond)

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/{shortCode}", "302")); got != before+2 {
		t.Errorf("APIRequestsTotal = %v, want %v", got, before+2)
	}
}

// TestTrackActiveRequest verifies the gauge returns to its start value
func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("APIActiveRequests = %v, want %v", got, start)
	}
}

func TestRecordRedirect(t *testing.T) {
	for _, outcome := range []string{"redirected", "not_found", "expired", "error"} {
		before := testutil.ToFloat64(RedirectsTotal.WithLabelValues(outcome))
		RecordRedirect(outcome)
		if got := testutil.ToFloat64(RedirectsTotal.WithLabelValues(outcome)); got != before+1 {
			t.Errorf("RedirectsTotal{%s} = %v, want %v", outcome, got, before+1)
		}
	}
}

func TestRecordClick(t *testing.T) {
	ok := testutil.ToFloat64(ClicksRecorded.WithLabelValues("success"))
	failed := testutil.ToFloat64(ClicksRecorded.WithLabelValues("failure"))

	RecordClick(time.Millisecond, nil)
	RecordClick(time.Millisecond, errors.New("store timeout"))

	if got := testutil.ToFloat64(ClicksRecorded.WithLabelValues("success")); got != ok+1 {
		t.Errorf("success = %v, want %v", got, ok+1)
	}
	if got := testutil.ToFloat64(ClicksRecorded.WithLabelValues("failure")); got != failed+1 {
		t.Errorf("failure = %v, want %v", got, failed+1)
	}
}

func TestRecordGeoIPLookup(t *testing.T) {
	before := testutil.ToFloat64(GeoIPLookups.WithLabelValues("ip-api.com", "failure"))
	RecordGeoIPLookup("ip-api.com", 20*time.Millisecond, errors.New("status 429"))
	if got := testutil.ToFloat64(GeoIPLookups.WithLabelValues("ip-api.com", "failure")); got != before+1 {
		t.Errorf("GeoIPLookups = %v, want %v", got, before+1)
	}
}

// TestCircuitBreakerMetrics tests circuit breaker metric recording
func TestCircuitBreakerMetrics(t *testing.T) {
	cbName := "geoip_test"

	CircuitBreakerState.WithLabelValues(cbName).Set(2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues(cbName)); got != 2 {
		t.Errorf("CircuitBreakerState = %v, want 2", got)
	}

	CircuitBreakerTransitions.WithLabelValues(cbName, "closed", "open").Inc()
	if got := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues(cbName, "closed", "open")); got != 1 {
		t.Errorf("CircuitBreakerTransitions = %v, want 1", got)
	}
}
