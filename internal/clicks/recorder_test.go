// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package clicks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/linkpulse/internal/geoip"
	"github.com/tomtom215/linkpulse/internal/models"
)

type fakeStore struct {
	mu     sync.Mutex
	clicks []models.ClickEvent
	err    error
}

func (s *fakeStore) RecordClick(_ context.Context, click *models.ClickEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	click.ID = int64(len(s.clicks) + 1)
	s.clicks = append(s.clicks, *click)
	return nil
}

type fakeLocator struct {
	loc   *geoip.Location
	calls []string
}

func (l *fakeLocator) Lookup(_ context.Context, ip string) *geoip.Location {
	l.calls = append(l.calls, ip)
	return l.loc
}

func strPtr(s string) *string { return &s }

const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func TestRecord(t *testing.T) {
	store := &fakeStore{}
	locator := &fakeLocator{loc: &geoip.Location{Country: strPtr("GB"), City: strPtr("London")}}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r := NewRecorder(store, locator)
	r.now = func() time.Time { return fixed }

	click, err := r.Record(context.Background(), Visit{
		LinkID:    42,
		UserAgent: iphoneUA,
		ClientIP:  "81.2.69.160:51234",
		Referrer:  "https://social.example/post",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if click.ID != 1 || click.URLID != 42 {
		t.Errorf("click ids = %d/%d, want 1/42", click.ID, click.URLID)
	}
	if !click.ClickedAt.Equal(fixed) {
		t.Errorf("ClickedAt = %v, want %v", click.ClickedAt, fixed)
	}
	if click.IPAddress != "81.2.69.160" {
		t.Errorf("IPAddress = %q, want port stripped", click.IPAddress)
	}
	if click.Country == nil || *click.Country != "GB" || click.City == nil || *click.City != "London" {
		t.Errorf("location = %v/%v, want GB/London", click.Country, click.City)
	}
	if click.Referer == nil || *click.Referer != "https://social.example/post" {
		t.Errorf("Referer = %v", click.Referer)
	}
	if click.DeviceType != models.DeviceMobile {
		t.Errorf("DeviceType = %q, want mobile", click.DeviceType)
	}
	if click.Browser != "Safari" || click.OS != "iOS" {
		t.Errorf("Browser/OS = %q/%q, want Safari/iOS", click.Browser, click.OS)
	}
	if len(locator.calls) != 1 || locator.calls[0] != "81.2.69.160" {
		t.Errorf("locator calls = %v", locator.calls)
	}
}

func TestRecord_GeoFailureLeavesLocationNull(t *testing.T) {
	store := &fakeStore{}
	r := NewRecorder(store, &fakeLocator{loc: nil})

	click, err := r.Record(context.Background(), Visit{LinkID: 1, ClientIP: "8.8.8.8"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if click.Country != nil || click.City != nil {
		t.Errorf("location = %v/%v, want nil", click.Country, click.City)
	}
}

func TestRecord_NoLocatorAndEmptyHeaders(t *testing.T) {
	store := &fakeStore{}
	r := NewRecorder(store, nil)

	click, err := r.Record(context.Background(), Visit{LinkID: 7})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if click.Referer != nil {
		t.Errorf("Referer = %v, want nil for empty header", click.Referer)
	}
	if click.DeviceType != models.DeviceDesktop {
		t.Errorf("DeviceType = %q, want desktop default", click.DeviceType)
	}
	if click.Browser != models.UnknownLabel || click.OS != models.UnknownLabel {
		t.Errorf("Browser/OS = %q/%q, want Unknown", click.Browser, click.OS)
	}
}

func TestRecord_StoreErrorPropagates(t *testing.T) {
	store := &fakeStore{err: models.ErrNotFound}
	r := NewRecorder(store, nil)

	_, err := r.Record(context.Background(), Visit{LinkID: 99})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Record() error = %v, want ErrNotFound", err)
	}
}
