// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

// Package analytics builds per-link and system-wide click reports.
//
// Every breakdown is computed in SQL by the store. This package checks
// ownership, runs the breakdown queries in parallel and assembles the
// LinkAnalytics response.
package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/linkpulse/internal/models"
)

// Store is the subset of the link store used for reporting.
type Store interface {
	GetLinkByID(ctx context.Context, id int64) (*models.ShortLink, error)
	RecentClicks(ctx context.Context, linkID int64, limit int) ([]models.ClickEvent, error)
	TopLocations(ctx context.Context, linkID int64, limit int) ([]models.LocationCount, error)
	TopBrowsers(ctx context.Context, linkID int64, limit int) ([]models.BrowserCount, error)
	TopOS(ctx context.Context, linkID int64, limit int) ([]models.OSCount, error)
	TopDevices(ctx context.Context, linkID int64) ([]models.DeviceCount, error)
	SystemStats(ctx context.Context, now time.Time) (*models.SystemStats, error)
}

// Aggregator assembles analytics reports.
type Aggregator struct {
	store Store
	now   func() time.Time
}

// NewAggregator creates an aggregator backed by store.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// ForOwner returns the report for a link owned by ownerID. A link owned by
// someone else is reported as models.ErrNotFound.
func (a *Aggregator) ForOwner(ctx context.Context, linkID, ownerID int64) (*models.LinkAnalytics, error) {
	link, err := a.store.GetLinkByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.UserID != ownerID {
		return nil, models.ErrNotFound
	}
	return a.build(ctx, link)
}

// ForAdmin returns the report for any link.
func (a *Aggregator) ForAdmin(ctx context.Context, linkID int64) (*models.LinkAnalytics, error) {
	link, err := a.store.GetLinkByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	return a.build(ctx, link)
}

// SystemStats returns the admin system-wide view as of now.
func (a *Aggregator) SystemStats(ctx context.Context) (*models.SystemStats, error) {
	stats, err := a.store.SystemStats(ctx, a.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("system stats: %w", err)
	}
	return stats, nil
}

type breakdownQuery struct {
	name  string
	query func() error
}

func (a *Aggregator) build(ctx context.Context, link *models.ShortLink) (*models.LinkAnalytics, error) {
	report := &models.LinkAnalytics{
		ShortCode:   link.ShortCode,
		TotalClicks: link.Clicks,
	}

	queries := []breakdownQuery{
		{"recent clicks", func() (err error) {
			report.RecentClicks, err = a.store.RecentClicks(ctx, link.ID, models.RecentClicksLimit)
			return err
		}},
		{"top locations", func() (err error) {
			report.TopLocations, err = a.store.TopLocations(ctx, link.ID, models.TopBucketLimit)
			return err
		}},
		{"top browsers", func() (err error) {
			report.TopBrowsers, err = a.store.TopBrowsers(ctx, link.ID, models.TopBucketLimit)
			return err
		}},
		{"top os", func() (err error) {
			report.TopOS, err = a.store.TopOS(ctx, link.ID, models.TopBucketLimit)
			return err
		}},
		{"top devices", func() (err error) {
			report.TopDevices, err = a.store.TopDevices(ctx, link.ID)
			return err
		}},
	}

	if err := runParallel(queries); err != nil {
		return nil, err
	}

	ensureNonNil(report)
	return report, nil
}

// runParallel runs every query and returns the first error in list order.
func runParallel(queries []breakdownQuery) error {
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(idx int, q breakdownQuery) {
			defer wg.Done()
			if err := q.query(); err != nil {
				errs[idx] = fmt.Errorf("failed to retrieve %s: %w", q.name, err)
			}
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureNonNil(r *models.LinkAnalytics) {
	if r.RecentClicks == nil {
		r.RecentClicks = []models.ClickEvent{}
	}
	if r.TopLocations == nil {
		r.TopLocations = []models.LocationCount{}
	}
	if r.TopBrowsers == nil {
		r.TopBrowsers = []models.BrowserCount{}
	}
	if r.TopOS == nil {
		r.TopOS = []models.OSCount{}
	}
	if r.TopDevices == nil {
		r.TopDevices = []models.DeviceCount{}
	}
}
