// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		name     string
		ip       string
		expected bool
	}{
		{"10.0.0.0/8", "10.100.50.25", true},
		{"172.16.0.0/12 start", "172.16.0.1", true},
		{"172.16.0.0/12 end", "172.31.255.255", true},
		{"192.168.0.0/16", "192.168.1.10", true},
		{"loopback IPv4", "127.0.0.1", true},
		{"link-local", "169.254.100.50", true},
		{"carrier-grade NAT", "100.64.0.1", true},
		{"IPv6 loopback", "::1", true},
		{"IPv6 link-local", "fe80::1", true},
		{"IPv6 unique local", "fd00::1234:5678", true},
		{"IPv4-mapped loopback", "::ffff:127.0.0.1", true},

		{"public IPv4", "8.8.8.8", false},
		{"public IPv4 2", "93.184.216.34", false},
		{"public IPv6", "2001:4860:4860::8888", false},
		{"not in 172.16/12", "172.32.0.1", false},
		{"just below 172.16", "172.15.255.255", false},
		{"invalid IP", "not-an-ip", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsPrivateIP(tt.ip); result != tt.expected {
				t.Errorf("IsPrivateIP(%q) = %v, expected %v", tt.ip, result, tt.expected)
			}
		})
	}
}

func TestIsValidPublicIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"8.8.8.8", true},
		{"2001:4860:4860::8888", true},
		{"192.168.1.1", false},
		{"0.0.0.0", false},
		{"::", false},
		{"unknown", false},
	}
	for _, tt := range tests {
		if got := IsValidPublicIP(tt.ip); got != tt.expected {
			t.Errorf("IsValidPublicIP(%q) = %v, want %v", tt.ip, got, tt.expected)
		}
	}
}

func TestNormalizeIP(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"203.0.113.7", "203.0.113.7"},
		{"203.0.113.7:443", "203.0.113.7"},
		{"[::1]:8080", "::1"},
		{"[2001:db8::1]", "2001:db8::1"},
		{"2001:db8::1", "2001:db8::1"},
		{" 8.8.8.8 ", "8.8.8.8"},
	}
	for _, tt := range tests {
		if got := NormalizeIP(tt.input); got != tt.expected {
			t.Errorf("NormalizeIP(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIPAPIProvider_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/8.8.8.8") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":      "success",
			"countryCode": "US",
			"city":        "Mountain View",
		})
	}))
	defer server.Close()

	p := NewIPAPIProvider()
	p.baseURL = server.URL

	loc, err := p.Lookup(context.Background(), "8.8.8.8")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if loc.Country == nil || *loc.Country != "US" {
		t.Errorf("Country = %v, want US", loc.Country)
	}
	if loc.City == nil || *loc.City != "Mountain View" {
		t.Errorf("City = %v, want Mountain View", loc.City)
	}
}

func TestIPAPIProvider_Lookup_FailedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "fail", "message": "reserved range"})
	}))
	defer server.Close()

	p := NewIPAPIProvider()
	p.baseURL = server.URL

	if _, err := p.Lookup(context.Background(), "8.8.8.8"); err == nil || !strings.Contains(err.Error(), "reserved range") {
		t.Errorf("Lookup() error = %v, want reserved range failure", err)
	}
}

func TestIPAPIProvider_Lookup_InvalidIP(t *testing.T) {
	p := NewIPAPIProvider()
	p.baseURL = "http://127.0.0.1:1" // never reached

	if _, err := p.Lookup(context.Background(), "not-an-ip"); err == nil {
		t.Error("Lookup() expected error for invalid IP")
	}
}

func TestIPAPIProvider_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success", "countryCode": "DE"})
	}))
	defer server.Close()

	p := NewIPAPIProvider()
	p.baseURL = server.URL

	var limited int
	for i := 0; i < 50; i++ {
		if _, err := p.Lookup(context.Background(), "8.8.4.4"); err != nil && strings.Contains(err.Error(), "rate limit") {
			limited++
		}
	}
	if limited == 0 {
		t.Error("expected calls beyond the 45 request burst to be rate limited")
	}
}

func TestMaxMindProvider_IsAvailable(t *testing.T) {
	tests := []struct {
		accountID, key string
		want           bool
	}{
		{"123", "abc", true},
		{"", "abc", false},
		{"123", "", false},
	}
	for _, tt := range tests {
		if got := NewMaxMindProvider(tt.accountID, tt.key).IsAvailable(); got != tt.want {
			t.Errorf("IsAvailable(%q, %q) = %v, want %v", tt.accountID, tt.key, got, tt.want)
		}
	}
}

func TestMaxMindProvider_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "123456" || pass != "license" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"code": "AUTHORIZATION_INVALID", "error": "bad key"})
			return
		}
		_, _ = w.Write([]byte(`{"city":{"names":{"en":"Berlin"}},"country":{"iso_code":"DE"}}`))
	}))
	defer server.Close()

	t.Run("success", func(t *testing.T) {
		p := NewMaxMindProvider("123456", "license")
		p.baseURL = server.URL

		loc, err := p.Lookup(context.Background(), "46.4.0.1")
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if loc.Country == nil || *loc.Country != "DE" || loc.City == nil || *loc.City != "Berlin" {
			t.Errorf("Lookup() = %+v, want DE/Berlin", loc)
		}
	})

	t.Run("invalid credentials", func(t *testing.T) {
		p := NewMaxMindProvider("123456", "wrong")
		p.baseURL = server.URL

		_, err := p.Lookup(context.Background(), "46.4.0.1")
		if err == nil || !strings.Contains(err.Error(), "AUTHORIZATION_INVALID") {
			t.Errorf("Lookup() error = %v, want AUTHORIZATION_INVALID", err)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		if _, err := NewMaxMindProvider("", "").Lookup(context.Background(), "46.4.0.1"); err == nil {
			t.Error("Lookup() expected error without credentials")
		}
	})
}

func TestNewLocationEmptyFields(t *testing.T) {
	loc := newLocation(" ", "")
	if loc.Country != nil || loc.City != nil {
		t.Errorf("newLocation with blanks = %+v, want nil fields", loc)
	}
}
