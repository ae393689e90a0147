// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

// Package geoip resolves client IP addresses to country and city for click
// analytics.
//
// Lookups are best-effort. The Resolver bounds every lookup with a timeout,
// skips private addresses, falls back across providers in order, and wraps
// the whole chain in a circuit breaker so a failing upstream stops costing
// redirect latency. Every failure is swallowed: callers get nil.
package geoip

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/linkpulse/internal/config"
	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/metrics"
)

// BreakerName labels the resolver's circuit breaker in logs and metrics.
const BreakerName = "geoip"

// Resolver looks up locations through an ordered list of providers.
type Resolver struct {
	providers []Provider
	timeout   time.Duration
	cb        *gobreaker.CircuitBreaker[*Location]
}

// BreakerSettings configures the circuit breaker around the provider chain.
type BreakerSettings struct {
	MinRequests  uint32
	FailureRatio float64
	OpenTimeout  time.Duration
}

// NewResolver creates a resolver. Providers are tried in order until one
// succeeds. A zero timeout disables the per-lookup deadline.
func NewResolver(timeout time.Duration, breaker BreakerSettings, providers ...Provider) *Resolver {
	return &Resolver{
		providers: providers,
		timeout:   timeout,
		cb:        newBreaker(breaker),
	}
}

// NewFromConfig builds the provider chain selected by cfg.Provider.
func NewFromConfig(cfg *config.GeoIPConfig) *Resolver {
	var providers []Provider
	switch cfg.Provider {
	case config.GeoIPProviderIPAPI:
		providers = append(providers, NewIPAPIProvider())
	case config.GeoIPProviderMaxMind:
		providers = append(providers, NewMaxMindProvider(cfg.MaxMindAccountID, cfg.MaxMindLicenseKey))
	case config.GeoIPProviderAuto:
		mm := NewMaxMindProvider(cfg.MaxMindAccountID, cfg.MaxMindLicenseKey)
		if mm.IsAvailable() {
			providers = append(providers, mm)
		}
		providers = append(providers, NewIPAPIProvider())
	}

	return NewResolver(cfg.LookupTimeout, BreakerSettings{
		MinRequests:  cfg.BreakerMinRequests,
		FailureRatio: cfg.BreakerFailureRatio,
		OpenTimeout:  cfg.BreakerOpenTimeout,
	}, providers...)
}

// Enabled reports whether any provider is configured.
func (r *Resolver) Enabled() bool {
	return r != nil && len(r.providers) > 0
}

// Lookup returns the location of ip, or nil when it cannot be determined.
// It never fails; errors are logged at debug level and counted.
func (r *Resolver) Lookup(ctx context.Context, ip string) *Location {
	if !r.Enabled() {
		return nil
	}

	ip = NormalizeIP(ip)
	if !IsValidPublicIP(ip) {
		metrics.GeoIPLookups.WithLabelValues("none", "skipped").Inc()
		return nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	loc, err := r.execute(func() (*Location, error) {
		return r.tryProviders(ctx, ip)
	})
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("ip", ip).Msg("GeoIP lookup failed")
		return nil
	}
	return loc
}

func (r *Resolver) tryProviders(ctx context.Context, ip string) (*Location, error) {
	var lastErr error

	for _, provider := range r.providers {
		if !provider.IsAvailable() {
			continue
		}

		start := time.Now()
		loc, err := provider.Lookup(ctx, ip)
		metrics.RecordGeoIPLookup(provider.Name(), time.Since(start), err)
		if err != nil {
			logging.Debug().Err(err).Str("provider", provider.Name()).Str("ip", ip).Msg("GeoIP provider failed")
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return loc, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all GeoIP providers failed for %s: %w", ip, lastErr)
	}
	return nil, fmt.Errorf("no GeoIP providers available")
}

// State returns the breaker state name: closed, half-open or open.
func (r *Resolver) State() string {
	return stateToString(r.cb.State())
}

func newBreaker(s BreakerSettings) *gobreaker.CircuitBreaker[*Location] {
	metrics.CircuitBreakerState.WithLabelValues(BreakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(0)

	minRequests := s.MinRequests
	if minRequests == 0 {
		minRequests = 10
	}
	ratio := s.FailureRatio
	if ratio <= 0 {
		ratio = 0.6
	}

	return gobreaker.NewCircuitBreaker[*Location](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= ratio
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening GeoIP circuit, lookups paused")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
}

func (r *Resolver) execute(fn func() (*Location, error)) (*Location, error) {
	loc, err := r.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "failure").Inc()
			counts := r.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(0)
	return loc, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
