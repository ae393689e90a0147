// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const jsonBody = `{"status":"ok"}`

func jsonHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jsonBody))
	})
}

func TestCompression_WithGzipAccept(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/urls", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	rec := httptest.NewRecorder()
	Compression(jsonHandler()).ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", rec.Header().Get("Content-Encoding"))
	}
	gz, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	body, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	if string(body) != jsonBody {
		t.Errorf("body = %q, want %q", body, jsonBody)
	}
}

func TestCompression_WithoutGzipAccept(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Compression(jsonHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/urls", nil))

	if rec.Header().Get("Content-Encoding") != "" {
		t.Errorf("Content-Encoding = %q, want none", rec.Header().Get("Content-Encoding"))
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestGzipResponseWriter_ImplicitHeader(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	gzw := &gzipResponseWriter{Writer: io.Discard, ResponseWriter: rec}
	if _, err := gzw.Write([]byte("x")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !gzw.wroteHeader || rec.Code != http.StatusOK {
		t.Errorf("wroteHeader = %v, code = %d, want implicit 200", gzw.wroteHeader, rec.Code)
	}
}
