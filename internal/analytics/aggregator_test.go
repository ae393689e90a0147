// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/linkpulse/internal/models"
)

type fakeStore struct {
	mu         sync.Mutex
	links      map[int64]*models.ShortLink
	browsers   []models.BrowserCount
	browserErr error
	limits     map[string]int
	statsAt    time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		links: map[int64]*models.ShortLink{
			1: {ID: 1, UserID: 10, ShortCode: "owned01", Clicks: 5},
			2: {ID: 2, UserID: 20, ShortCode: "other01", Clicks: 0},
		},
		limits: map[string]int{},
	}
}

func (f *fakeStore) setLimit(name string, limit int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits[name] = limit
}

func (f *fakeStore) GetLinkByID(_ context.Context, id int64) (*models.ShortLink, error) {
	if l, ok := f.links[id]; ok {
		return l, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) RecentClicks(_ context.Context, _ int64, limit int) ([]models.ClickEvent, error) {
	f.setLimit("recent", limit)
	return nil, nil
}

func (f *fakeStore) TopLocations(_ context.Context, _ int64, limit int) ([]models.LocationCount, error) {
	f.setLimit("locations", limit)
	return nil, nil
}

func (f *fakeStore) TopBrowsers(_ context.Context, _ int64, limit int) ([]models.BrowserCount, error) {
	f.setLimit("browsers", limit)
	return f.browsers, f.browserErr
}

func (f *fakeStore) TopOS(_ context.Context, _ int64, limit int) ([]models.OSCount, error) {
	f.setLimit("os", limit)
	return nil, nil
}

func (f *fakeStore) TopDevices(context.Context, int64) ([]models.DeviceCount, error) {
	return []models.DeviceCount{{DeviceType: models.DeviceDesktop, Count: 5}}, nil
}

func (f *fakeStore) SystemStats(_ context.Context, now time.Time) (*models.SystemStats, error) {
	f.statsAt = now
	return &models.SystemStats{TotalUsers: 2}, nil
}

func TestForOwner(t *testing.T) {
	store := newFakeStore()
	store.browsers = []models.BrowserCount{{Browser: "Chrome", Count: 5}}
	agg := NewAggregator(store)

	report, err := agg.ForOwner(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("ForOwner() error = %v", err)
	}
	if report.ShortCode != "owned01" || report.TotalClicks != 5 {
		t.Errorf("report = %+v, want owned01 with 5 clicks", report)
	}
	if len(report.TopBrowsers) != 1 || report.TopBrowsers[0].Browser != "Chrome" {
		t.Errorf("TopBrowsers = %v", report.TopBrowsers)
	}
	if len(report.TopDevices) != 1 {
		t.Errorf("TopDevices = %v", report.TopDevices)
	}

	if store.limits["recent"] != models.RecentClicksLimit {
		t.Errorf("recent limit = %d, want %d", store.limits["recent"], models.RecentClicksLimit)
	}
	for _, k := range []string{"locations", "browsers", "os"} {
		if store.limits[k] != models.TopBucketLimit {
			t.Errorf("%s limit = %d, want %d", k, store.limits[k], models.TopBucketLimit)
		}
	}
}

func TestForOwner_NonOwnerGetsNotFound(t *testing.T) {
	agg := NewAggregator(newFakeStore())

	if _, err := agg.ForOwner(context.Background(), 2, 10); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("ForOwner(non-owner) error = %v, want ErrNotFound", err)
	}
	if _, err := agg.ForOwner(context.Background(), 99, 10); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("ForOwner(missing) error = %v, want ErrNotFound", err)
	}
}

func TestForAdmin_AnyOwnerAndEmptyLists(t *testing.T) {
	agg := NewAggregator(newFakeStore())

	report, err := agg.ForAdmin(context.Background(), 2)
	if err != nil {
		t.Fatalf("ForAdmin() error = %v", err)
	}
	if report.TotalClicks != 0 {
		t.Errorf("TotalClicks = %d, want 0", report.TotalClicks)
	}
	if report.RecentClicks == nil || report.TopLocations == nil || report.TopBrowsers == nil || report.TopOS == nil {
		t.Error("empty breakdowns must be non-nil slices")
	}
}

func TestForAdmin_QueryErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.browserErr = models.ErrStoreTimeout
	agg := NewAggregator(store)

	_, err := agg.ForAdmin(context.Background(), 1)
	if !errors.Is(err, models.ErrStoreTimeout) {
		t.Errorf("ForAdmin() error = %v, want ErrStoreTimeout", err)
	}
}

func TestSystemStats_UsesClock(t *testing.T) {
	store := newFakeStore()
	agg := NewAggregator(store)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	agg.now = func() time.Time { return fixed }

	stats, err := agg.SystemStats(context.Background())
	if err != nil {
		t.Fatalf("SystemStats() error = %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("TotalUsers = %d", stats.TotalUsers)
	}
	if !store.statsAt.Equal(fixed) {
		t.Errorf("stats computed at %v, want %v", store.statsAt, fixed)
	}
}
