// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

// Package clicks turns a redirect visit into a stored click event.
//
// A visit is enriched with a best-effort geo lookup and a parsed user agent,
// then persisted through the store's RecordClick, which increments the link
// counter and inserts the event in one transaction.
package clicks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/linkpulse/internal/geoip"
	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/metrics"
	"github.com/tomtom215/linkpulse/internal/models"
	"github.com/tomtom215/linkpulse/internal/useragent"
)

// Visit is one request to a short code.
type Visit struct {
	LinkID    int64
	UserAgent string
	ClientIP  string
	Referrer  string
}

// Store persists click events.
type Store interface {
	RecordClick(ctx context.Context, click *models.ClickEvent) error
}

// Locator resolves an IP to a location, or nil when it cannot.
type Locator interface {
	Lookup(ctx context.Context, ip string) *geoip.Location
}

// Recorder enriches and stores click events.
type Recorder struct {
	store   Store
	locator Locator
	now     func() time.Time
}

// NewRecorder creates a recorder. A nil locator disables geo lookups.
func NewRecorder(store Store, locator Locator) *Recorder {
	return &Recorder{
		store:   store,
		locator: locator,
		now:     time.Now,
	}
}

// Record stores a click for the visit. Geo lookup failures leave country and
// city null and never fail the call; store failures are returned.
func (r *Recorder) Record(ctx context.Context, v Visit) (*models.ClickEvent, error) {
	start := time.Now()

	ua := useragent.Parse(v.UserAgent)
	ip := geoip.NormalizeIP(v.ClientIP)

	click := &models.ClickEvent{
		URLID:      v.LinkID,
		ClickedAt:  r.now().UTC(),
		UserAgent:  v.UserAgent,
		IPAddress:  ip,
		Referer:    optional(v.Referrer),
		Browser:    ua.Browser,
		OS:         ua.OS,
		DeviceType: ua.DeviceType,
	}

	if r.locator != nil && ip != "" {
		if loc := r.locator.Lookup(ctx, ip); loc != nil {
			click.Country = loc.Country
			click.City = loc.City
		}
	}

	err := r.store.RecordClick(ctx, click)
	metrics.RecordClick(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("record click for link %d: %w", v.LinkID, err)
	}

	logging.Ctx(ctx).Debug().
		Int64("link_id", v.LinkID).
		Int64("click_id", click.ID).
		Str("browser", click.Browser).
		Str("device", click.DeviceType).
		Bool("bot", ua.Bot).
		Msg("Click recorded")

	return click, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
