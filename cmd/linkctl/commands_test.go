// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/linkpulse/internal/config"
	"github.com/tomtom215/linkpulse/internal/models"
)

type fakeStore struct {
	removed    []models.DeletedLink
	cleanupErr error
	cleanupAt  time.Time
	users      map[string]*models.User
	closed     bool
}

func (f *fakeStore) CleanupExpired(_ context.Context, now time.Time) ([]models.DeletedLink, error) {
	f.cleanupAt = now
	return f.removed, f.cleanupErr
}

func (f *fakeStore) PromoteAdmin(_ context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.IsAdmin = true
	return u, nil
}

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

var fixedNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func testDeps(store *fakeStore) commandDeps {
	return commandDeps{
		loadConfig: func() (*config.Config, error) {
			return &config.Config{Logging: config.LoggingConfig{Level: "error", Format: "json"}}, nil
		},
		openStore: func(*config.DatabaseConfig) (maintenanceStore, error) { return store, nil },
		now:       func() time.Time { return fixedNow },
	}
}

func run(t *testing.T, deps commandDeps, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCleanup(t *testing.T) {
	store := &fakeStore{removed: []models.DeletedLink{{ID: 3, ShortCode: "old1"}, {ID: 9, ShortCode: "old2"}}}

	out, err := run(t, testDeps(store), "cleanup")
	if err != nil {
		t.Fatalf("cleanup error = %v", err)
	}
	for _, want := range []string{"removed old1 (id 3)", "removed old2 (id 9)", "2 expired link(s) removed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !store.cleanupAt.Equal(fixedNow) {
		t.Errorf("cleanup at %v, want %v", store.cleanupAt, fixedNow)
	}
	if !store.closed {
		t.Error("store was not closed")
	}
}

func TestCleanup_Nothing(t *testing.T) {
	out, err := run(t, testDeps(&fakeStore{}), "cleanup")
	if err != nil {
		t.Fatalf("cleanup error = %v", err)
	}
	if !strings.Contains(out, "0 expired link(s) removed") {
		t.Errorf("output = %q", out)
	}
}

func TestCleanup_StoreError(t *testing.T) {
	store := &fakeStore{cleanupErr: models.ErrStoreTimeout}

	_, err := run(t, testDeps(store), "cleanup")
	if !errors.Is(err, models.ErrStoreTimeout) {
		t.Errorf("cleanup error = %v, want ErrStoreTimeout", err)
	}
	if !store.closed {
		t.Error("store was not closed after failure")
	}
}

func TestPromoteAdmin(t *testing.T) {
	store := &fakeStore{users: map[string]*models.User{
		"ops@example.com": {ID: 1, Username: "ops", Email: "ops@example.com"},
	}}

	out, err := run(t, testDeps(store), "promote-admin", "ops@example.com")
	if err != nil {
		t.Fatalf("promote-admin error = %v", err)
	}
	if !store.users["ops@example.com"].IsAdmin {
		t.Error("user was not promoted")
	}
	if !strings.Contains(out, "ops (ops@example.com) is now an admin") {
		t.Errorf("output = %q", out)
	}

	if _, err := run(t, testDeps(store), "promote-admin", "ghost@example.com"); err == nil {
		t.Error("expected error for unknown email")
	}
	if _, err := run(t, testDeps(store), "promote-admin"); err == nil {
		t.Error("expected error for missing argument")
	}
}

func TestConfigErrorStopsBeforeStore(t *testing.T) {
	opened := false
	deps := commandDeps{
		loadConfig: func() (*config.Config, error) { return nil, errors.New("JWT_SECRET is required") },
		openStore: func(*config.DatabaseConfig) (maintenanceStore, error) {
			opened = true
			return &fakeStore{}, nil
		},
	}

	if _, err := run(t, deps, "cleanup"); err == nil {
		t.Error("expected configuration error")
	}
	if opened {
		t.Error("store opened despite configuration error")
	}
}
