// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

// Package redirect resolves short codes to their target URLs.
package redirect

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/linkpulse/internal/clicks"
	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/metrics"
	"github.com/tomtom215/linkpulse/internal/models"
)

// Redirect outcome labels.
const (
	OutcomeRedirected = "redirected"
	OutcomeNotFound   = "not_found"
	OutcomeExpired    = "expired"
	OutcomeError      = "error"
)

// LinkStore looks up links by short code.
type LinkStore interface {
	GetLinkByCode(ctx context.Context, code string) (*models.ShortLink, error)
}

// ClickRecorder records a visit.
type ClickRecorder interface {
	Record(ctx context.Context, v clicks.Visit) (*models.ClickEvent, error)
}

// Resolver maps a short code to its target and records the click.
type Resolver struct {
	links    LinkStore
	recorder ClickRecorder
	now      func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// NewResolver creates a resolver.
func NewResolver(links LinkStore, recorder ClickRecorder, opts ...Option) *Resolver {
	r := &Resolver{
		links:    links,
		recorder: recorder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the target URL for code.
//
// An unknown code returns models.ErrNotFound. A link whose expiry is before
// now returns models.ErrExpired and records nothing. A click recording
// failure is logged and the target is still returned.
func (r *Resolver) Resolve(ctx context.Context, code string, visit clicks.Visit) (string, error) {
	link, err := r.links.GetLinkByCode(ctx, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			metrics.RecordRedirect(OutcomeNotFound)
			return "", models.ErrNotFound
		}
		metrics.RecordRedirect(OutcomeError)
		return "", err
	}

	if link.IsExpired(r.now()) {
		metrics.RecordRedirect(OutcomeExpired)
		return "", models.ErrExpired
	}

	visit.LinkID = link.ID
	if _, err := r.recorder.Record(ctx, visit); err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("short_code", code).
			Int64("link_id", link.ID).
			Msg("Failed to record click")
	}

	metrics.RecordRedirect(OutcomeRedirected)
	return link.OriginalURL, nil
}
