// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/linkpulse/internal/models"
)

const safariUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func TestCreateRedirectAnalyticsFlow(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signup(t, "alice")

	created := env.createLink(t, alice.Token, map[string]interface{}{
		"originalUrl": "https://example.com/landing?x=1",
		"title":       "Landing",
	})
	if len(created.ShortCode) != 7 {
		t.Errorf("generated code %q, want 7 characters", created.ShortCode)
	}
	if created.ShortURL != "http://lp.test/"+created.ShortCode {
		t.Errorf("shortUrl = %q", created.ShortURL)
	}

	for i := 0; i < 3; i++ {
		rec := env.do(t, http.MethodGet, "/"+created.ShortCode, nil,
			withHeader("User-Agent", safariUA),
			withHeader("Referer", "https://news.example/item"),
			withRemoteAddr("10.0.0.5:5555"))
		expectStatus(t, rec, http.StatusFound)
		if loc := rec.Header().Get("Location"); loc != "https://example.com/landing?x=1" {
			t.Fatalf("Location = %q", loc)
		}
	}

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/urls/%d/analytics", created.ID), nil, withToken(alice.Token))
	expectStatus(t, rec, http.StatusOK)
	var report models.LinkAnalytics
	decodeBody(t, rec, &report)

	if report.TotalClicks != 3 || len(report.RecentClicks) != 3 {
		t.Fatalf("clicks = %d/%d, want 3/3", report.TotalClicks, len(report.RecentClicks))
	}
	click := report.RecentClicks[0]
	if click.Browser != "Safari" || click.OS != "iOS" || click.DeviceType != models.DeviceMobile {
		t.Errorf("click = %+v", click)
	}
	if click.IPAddress != "10.0.0.5" {
		t.Errorf("IPAddress = %q", click.IPAddress)
	}
	if click.Referer == nil || *click.Referer != "https://news.example/item" {
		t.Errorf("Referer = %v", click.Referer)
	}
	if len(report.TopLocations) != 1 || report.TopLocations[0].Country != models.UnknownLabel {
		t.Errorf("TopLocations = %+v, want one Unknown bucket", report.TopLocations)
	}
	if len(report.TopDevices) != 1 || report.TopDevices[0].Count != 3 {
		t.Errorf("TopDevices = %+v", report.TopDevices)
	}

	rec = env.do(t, http.MethodGet, "/api/urls", nil, withToken(alice.Token))
	expectStatus(t, rec, http.StatusOK)
	var links []models.ShortLink
	decodeBody(t, rec, &links)
	if len(links) != 1 || links[0].Clicks != 3 || links[0].Title == nil || *links[0].Title != "Landing" {
		t.Errorf("links = %+v", links)
	}
}

func TestCreateLink_CustomCode(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")

	created := env.createLink(t, alice.Token, map[string]interface{}{
		"originalUrl":     "https://example.com",
		"customShortCode": "promo-2026",
	})
	if created.ShortCode != "promo-2026" {
		t.Errorf("ShortCode = %q", created.ShortCode)
	}

	rec := env.do(t, http.MethodPost, "/api/urls/create", map[string]interface{}{
		"originalUrl":     "https://other.example",
		"customShortCode": "promo-2026",
	}, withToken(bob.Token))
	expectErrorCode(t, rec, http.StatusConflict, ErrCodeConflict)

	for _, code := range []string{"api", "metrics", "API"} {
		rec = env.do(t, http.MethodPost, "/api/urls/create", map[string]interface{}{
			"originalUrl":     "https://other.example",
			"customShortCode": code,
		}, withToken(bob.Token))
		expectErrorCode(t, rec, http.StatusConflict, ErrCodeConflict)
	}

	for _, code := range []string{"ab", "has space", strings.Repeat("x", 21)} {
		rec = env.do(t, http.MethodPost, "/api/urls/create", map[string]interface{}{
			"originalUrl":     "https://other.example",
			"customShortCode": code,
		}, withToken(bob.Token))
		expectErrorCode(t, rec, http.StatusBadRequest, ErrCodeValidation)
	}
}

func TestCreateLink_Validation(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signup(t, "alice")

	for _, target := range []string{"", "not a url", "/relative/path"} {
		rec := env.do(t, http.MethodPost, "/api/urls/create", map[string]interface{}{
			"originalUrl": target,
		}, withToken(alice.Token))
		expectErrorCode(t, rec, http.StatusBadRequest, ErrCodeValidation)
	}

	rec := env.do(t, http.MethodPost, "/api/urls/create", map[string]interface{}{
		"originalUrl": "https://example.com",
	})
	expectErrorCode(t, rec, http.StatusUnauthorized, ErrCodeUnauthorized)
}

func TestRedirect_ExpiredAndUnknown(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signup(t, "alice")

	past := time.Now().Add(-time.Hour).UTC()
	expired := env.createLink(t, alice.Token, map[string]interface{}{
		"originalUrl":     "https://gone.example",
		"customShortCode": "gone",
		"expiresAt":       past,
	})

	rec := env.do(t, http.MethodGet, "/gone", nil)
	apiErr := expectErrorCode(t, rec, http.StatusGone, ErrCodeExpired)
	if apiErr.Message != "URL has expired" {
		t.Errorf("message = %q", apiErr.Message)
	}

	link, err := env.db.GetLinkByID(context.Background(), expired.ID)
	if err != nil {
		t.Fatalf("GetLinkByID() error = %v", err)
	}
	if link.Clicks != 0 {
		t.Errorf("expired link clicks = %d, want 0", link.Clicks)
	}
	events, err := env.db.RecentClicks(context.Background(), expired.ID, 10)
	if err != nil {
		t.Fatalf("RecentClicks() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expired link has %d click events, want 0", len(events))
	}

	rec = env.do(t, http.MethodGet, "/nope123", nil)
	apiErr = expectErrorCode(t, rec, http.StatusNotFound, ErrCodeNotFound)
	if apiErr.Message != "URL not found" {
		t.Errorf("message = %q", apiErr.Message)
	}

	// Codes are case-sensitive
	rec = env.do(t, http.MethodGet, "/GONE", nil)
	expectErrorCode(t, rec, http.StatusNotFound, ErrCodeNotFound)
}

func TestOwnerIsolation(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")

	link := env.createLink(t, alice.Token, map[string]interface{}{"originalUrl": "https://example.com"})
	path := fmt.Sprintf("/api/urls/%d", link.ID)

	rec := env.do(t, http.MethodGet, path+"/analytics", nil, withToken(bob.Token))
	expectErrorCode(t, rec, http.StatusNotFound, ErrCodeNotFound)

	rec = env.do(t, http.MethodDelete, path, nil, withToken(bob.Token))
	expectErrorCode(t, rec, http.StatusNotFound, ErrCodeNotFound)

	rec = env.do(t, http.MethodGet, "/api/urls", nil, withToken(bob.Token))
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("bob's list = %s, want []", rec.Body.String())
	}

	rec = env.do(t, http.MethodDelete, path, nil, withToken(alice.Token))
	expectStatus(t, rec, http.StatusOK)
	var msg models.MessageResponse
	decodeBody(t, rec, &msg)
	if msg.Message != "URL deleted successfully" {
		t.Errorf("message = %q", msg.Message)
	}

	rec = env.do(t, http.MethodGet, "/"+link.ShortCode, nil)
	expectErrorCode(t, rec, http.StatusNotFound, ErrCodeNotFound)
}

func TestLinkAnalytics_BadID(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signup(t, "alice")

	for _, id := range []string{"abc", "0", "-3"} {
		rec := env.do(t, http.MethodGet, "/api/urls/"+id+"/analytics", nil, withToken(alice.Token))
		expectErrorCode(t, rec, http.StatusBadRequest, ErrCodeValidation)
	}
}

func TestLinkAnalytics_NoClicksReturnsEmptyLists(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signup(t, "alice")
	link := env.createLink(t, alice.Token, map[string]interface{}{"originalUrl": "https://example.com"})

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/urls/%d/analytics", link.ID), nil, withToken(alice.Token))
	expectStatus(t, rec, http.StatusOK)
	body := rec.Body.String()
	for _, field := range []string{`"recentClicks":[]`, `"topLocations":[]`, `"topBrowsers":[]`, `"topOS":[]`} {
		if !strings.Contains(body, field) {
			t.Errorf("body missing %s: %s", field, body)
		}
	}
}
