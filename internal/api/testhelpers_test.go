// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/linkpulse/internal/analytics"
	"github.com/tomtom215/linkpulse/internal/auth"
	"github.com/tomtom215/linkpulse/internal/clicks"
	"github.com/tomtom215/linkpulse/internal/config"
	"github.com/tomtom215/linkpulse/internal/database"
	"github.com/tomtom215/linkpulse/internal/models"
	"github.com/tomtom215/linkpulse/internal/redirect"
)

// testDBSemaphore serializes DuckDB-backed API tests.
var testDBSemaphore = make(chan struct{}, 1)

type testEnv struct {
	db      *database.DB
	cfg     *config.Config
	handler http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BaseURL: "http://lp.test/",
		},
		Database: config.DatabaseConfig{
			Driver:       config.DriverDuckDB,
			Path:         ":memory:",
			MaxMemory:    "1GB",
			MaxOpenConns: 5,
			MaxIdleConns: 2,
			QueryTimeout: 10 * time.Second,
		},
		API: config.APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret-with-enough-entropy-0123456789",
			SessionTimeout:    time.Hour,
			BcryptCost:        bcrypt.MinCost,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
	}
}

// setupTestEnv builds the full router over an in-memory DuckDB.
func setupTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	resolver := redirect.NewResolver(db, clicks.NewRecorder(db, nil))
	handler := NewHandler(db, resolver, analytics.NewAggregator(db), jwtManager, cfg)
	router := NewRouter(handler, auth.NewMiddleware(jwtManager, db),
		NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	return &testEnv{db: db, cfg: cfg, handler: router.SetupChi()}
}

type reqOption func(*http.Request)

func withToken(token string) reqOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withRemoteAddr(addr string) reqOption {
	return func(r *http.Request) { r.RemoteAddr = addr }
}

func withHeader(key, value string) reqOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, opts ...reqOption) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if buf.Len() > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) models.APIError {
	t.Helper()
	expectStatus(t, rec, status)
	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Success || resp.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", resp.Error, code)
	}
	return resp.Error
}

// signup registers name and returns the auth response.
func (e *testEnv) signup(t *testing.T, name string) models.AuthResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": name,
		"email":    name + "@example.com",
		"password": "correct horse",
	})
	expectStatus(t, rec, http.StatusCreated)
	var resp models.AuthResponse
	decodeBody(t, rec, &resp)
	return resp
}

// signupAdmin registers name and promotes it.
func (e *testEnv) signupAdmin(t *testing.T, name string) models.AuthResponse {
	t.Helper()
	resp := e.signup(t, name)
	if _, err := e.db.PromoteAdmin(context.Background(), resp.User.Email); err != nil {
		t.Fatalf("PromoteAdmin() error = %v", err)
	}
	return resp
}

// createLink creates a link for token and returns the response.
func (e *testEnv) createLink(t *testing.T, token string, body map[string]interface{}) models.CreateLinkResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/urls/create", body, withToken(token))
	expectStatus(t, rec, http.StatusCreated)
	var resp models.CreateLinkResponse
	decodeBody(t, rec, &resp)
	return resp
}
