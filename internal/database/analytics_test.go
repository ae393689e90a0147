// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/linkpulse/internal/models"
)

func recordClicks(t *testing.T, db *DB, linkID int64, clicks ...models.ClickEvent) {
	t.Helper()
	for i := range clicks {
		c := clicks[i]
		c.URLID = linkID
		checkNoError(t, db.RecordClick(context.Background(), &c))
	}
}

func TestTopBuckets_UnknownAndTiebreak(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := mustCreateUser(t, db, "analyst")
	link := mustCreateLink(t, db, owner.ID, "stats1", models.LinkOptions{})

	// Safari is seen first, Chrome second; both reach two clicks.
	recordClicks(t, db, link.ID,
		models.ClickEvent{Browser: "Safari", OS: "iOS", DeviceType: models.DeviceMobile, Country: strPtr("US"), City: strPtr("NYC")},
		models.ClickEvent{Browser: "Chrome", OS: "", DeviceType: models.DeviceDesktop},
		models.ClickEvent{Browser: "Chrome", OS: "Windows", DeviceType: models.DeviceDesktop, Country: strPtr("")},
		models.ClickEvent{Browser: "Safari", OS: "iOS", DeviceType: models.DeviceTablet, Country: strPtr("US"), City: strPtr("NYC")},
		models.ClickEvent{Browser: "", OS: "Linux", DeviceType: models.DeviceDesktop},
	)

	browsers, err := db.TopBrowsers(ctx, link.ID, 10)
	checkNoError(t, err)
	want := []models.BrowserCount{{Browser: "Safari", Count: 2}, {Browser: "Chrome", Count: 2}, {Browser: models.UnknownLabel, Count: 1}}
	if fmt.Sprint(browsers) != fmt.Sprint(want) {
		t.Errorf("TopBrowsers() = %v, want %v", browsers, want)
	}

	locations, err := db.TopLocations(ctx, link.ID, 10)
	checkNoError(t, err)
	if len(locations) != 2 {
		t.Fatalf("TopLocations() = %v, want 2 buckets", locations)
	}
	// Unknown/Unknown has three clicks (two NULL countries, one empty).
	if locations[0].Country != models.UnknownLabel || locations[0].City != models.UnknownLabel || locations[0].Count != 3 {
		t.Errorf("locations[0] = %+v, want Unknown/Unknown x3", locations[0])
	}
	if locations[1].Country != "US" || locations[1].City != "NYC" || locations[1].Count != 2 {
		t.Errorf("locations[1] = %+v, want US/NYC x2", locations[1])
	}

	oses, err := db.TopOS(ctx, link.ID, 10)
	checkNoError(t, err)
	if oses[0].OS != "iOS" || oses[0].Count != 2 {
		t.Errorf("TopOS()[0] = %+v, want iOS x2", oses[0])
	}
	// Empty OS on the second click ranks ahead of Windows and Linux.
	if oses[1].OS != models.UnknownLabel {
		t.Errorf("TopOS()[1] = %+v, want Unknown", oses[1])
	}

	devices, err := db.TopDevices(ctx, link.ID)
	checkNoError(t, err)
	if devices[0].DeviceType != models.DeviceDesktop || devices[0].Count != 3 {
		t.Errorf("TopDevices()[0] = %+v, want desktop x3", devices[0])
	}
	if len(devices) != 3 {
		t.Errorf("TopDevices() len = %d, want 3", len(devices))
	}
}

func TestTopBuckets_Limit(t *testing.T) {
	db := setupTestDB(t)
	owner := mustCreateUser(t, db, "many")
	link := mustCreateLink(t, db, owner.ID, "many01", models.LinkOptions{})

	for i := 0; i < 12; i++ {
		recordClicks(t, db, link.ID, models.ClickEvent{Browser: fmt.Sprintf("Browser%02d", i)})
	}

	browsers, err := db.TopBrowsers(context.Background(), link.ID, models.TopBucketLimit)
	checkNoError(t, err)
	if len(browsers) != models.TopBucketLimit {
		t.Fatalf("len = %d, want %d", len(browsers), models.TopBucketLimit)
	}
	// All counts tie, so insertion order decides.
	checkStringEqual(t, "first", browsers[0].Browser, "Browser00")
	checkStringEqual(t, "last", browsers[9].Browser, "Browser09")
}

func TestTopBuckets_NoClicks(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := mustCreateUser(t, db, "quiet")
	link := mustCreateLink(t, db, owner.ID, "quiet1", models.LinkOptions{})

	browsers, err := db.TopBrowsers(ctx, link.ID, 10)
	checkNoError(t, err)
	devices, err := db.TopDevices(ctx, link.ID)
	checkNoError(t, err)
	recent, err := db.RecentClicks(ctx, link.ID, 100)
	checkNoError(t, err)

	if browsers == nil || devices == nil || recent == nil {
		t.Error("empty results must be non-nil slices")
	}
	if len(browsers)+len(devices)+len(recent) != 0 {
		t.Error("expected no rows")
	}
}

func TestSystemStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	mustCreateUser(t, db, "carol")

	l1 := mustCreateLink(t, db, alice.ID, "sys001", models.LinkOptions{})
	mustCreateLink(t, db, alice.ID, "sys002", models.LinkOptions{ExpiresAt: &past})
	mustCreateLink(t, db, bob.ID, "sys003", models.LinkOptions{ExpiresAt: &future})
	// Expiring exactly now is still active, as on redirect.
	mustCreateLink(t, db, alice.ID, "sys004", models.LinkOptions{ExpiresAt: &now})
	recordClicks(t, db, l1.ID, models.ClickEvent{}, models.ClickEvent{})

	stats, err := db.SystemStats(ctx, now)
	checkNoError(t, err)

	checkInt64Equal(t, "TotalUsers", stats.TotalUsers, 3)
	checkInt64Equal(t, "TotalURLs", stats.TotalURLs, 4)
	checkInt64Equal(t, "TotalClicks", stats.TotalClicks, 2)
	checkInt64Equal(t, "ActiveURLs", stats.ActiveURLs, 3)
	checkInt64Equal(t, "ExpiredURLs", stats.ExpiredURLs, 1)

	if len(stats.TopUsers) != 3 {
		t.Fatalf("TopUsers len = %d, want 3", len(stats.TopUsers))
	}
	checkStringEqual(t, "top user", stats.TopUsers[0].Username, "alice")
	checkInt64Equal(t, "top user url_count", stats.TopUsers[0].URLCount, 3)
	checkInt64Equal(t, "carol url_count", stats.TopUsers[2].URLCount, 0)

	if len(stats.RecentUsers) != 3 {
		t.Fatalf("RecentUsers len = %d, want 3", len(stats.RecentUsers))
	}
	checkStringEqual(t, "newest user", stats.RecentUsers[0].Username, "carol")
}

func TestSystemStats_Empty(t *testing.T) {
	db := setupTestDB(t)

	stats, err := db.SystemStats(context.Background(), time.Now())
	checkNoError(t, err)
	if stats.TopUsers == nil || stats.RecentUsers == nil {
		t.Error("empty stats lists must be non-nil")
	}
	if stats.TotalUsers != 0 || stats.TotalURLs != 0 {
		t.Errorf("stats = %+v, want zero totals", stats)
	}
}
