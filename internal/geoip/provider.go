// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package geoip

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// Location is the result of a lookup. Country is an ISO 3166-1 alpha-2 code.
type Location struct {
	Country *string
	City    *string
}

// Provider looks up the approximate location of a public IP address.
type Provider interface {
	// Lookup returns the location for ip, or an error if the lookup fails.
	Lookup(ctx context.Context, ip string) (*Location, error)

	// Name returns the provider name for logging and metrics.
	Name() string

	// IsAvailable reports whether the provider is configured.
	IsAvailable() bool
}

var errInvalidIP = errors.New("invalid IP address")

// ========================================
// MaxMind GeoLite2 web service
// ========================================

// MaxMindProvider queries the MaxMind GeoLite2 City web service.
// Authentication is HTTP Basic with the account ID and license key.
type MaxMindProvider struct {
	client     *http.Client
	accountID  string
	licenseKey string
	baseURL    string
}

type maxMindResponse struct {
	City struct {
		Names map[string]string `json:"names"`
	} `json:"city"`
	Country struct {
		ISOCode string `json:"iso_code"`
	} `json:"country"`
}

type maxMindErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// NewMaxMindProvider creates a MaxMind provider.
func NewMaxMindProvider(accountID, licenseKey string) *MaxMindProvider {
	return &MaxMindProvider{
		client:     &http.Client{Timeout: 10 * time.Second},
		accountID:  accountID,
		licenseKey: licenseKey,
		baseURL:    "https://geolite.info/geoip/v2.1/city",
	}
}

// Name returns the provider name.
func (p *MaxMindProvider) Name() string {
	return "maxmind-geolite2"
}

// IsAvailable returns true if account ID and license key are configured.
func (p *MaxMindProvider) IsAvailable() bool {
	return p.accountID != "" && p.licenseKey != ""
}

// Lookup queries the web service for ip.
func (p *MaxMindProvider) Lookup(ctx context.Context, ip string) (*Location, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("MaxMind credentials not configured")
	}
	if _, err := netip.ParseAddr(ip); err != nil {
		return nil, fmt.Errorf("%w: %s", errInvalidIP, ip)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+ip, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(p.accountID, p.licenseKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query MaxMind: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp maxMindErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return nil, fmt.Errorf("MaxMind error (%s): %s", errResp.Code, errResp.Error)
		}
		return nil, fmt.Errorf("MaxMind returned status %d", resp.StatusCode)
	}

	var result maxMindResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode MaxMind response: %w", err)
	}

	return newLocation(result.Country.ISOCode, result.City.Names["en"]), nil
}

// ========================================
// ip-api.com (free tier, no key)
// ========================================

// IPAPIProvider queries the free ip-api.com endpoint.
// The free tier allows 45 requests per minute; calls beyond that fail fast.
type IPAPIProvider struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

type ipAPIResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
}

// NewIPAPIProvider creates an ip-api.com provider.
func NewIPAPIProvider() *IPAPIProvider {
	return &IPAPIProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Minute/45), 45),
		baseURL: "http://ip-api.com/json",
	}
}

// Name returns the provider name.
func (p *IPAPIProvider) Name() string {
	return "ip-api.com"
}

// IsAvailable returns true; ip-api.com needs no key.
func (p *IPAPIProvider) IsAvailable() bool {
	return true
}

// Lookup queries ip-api.com for ip.
func (p *IPAPIProvider) Lookup(ctx context.Context, ip string) (*Location, error) {
	if _, err := netip.ParseAddr(ip); err != nil {
		return nil, fmt.Errorf("%w: %s", errInvalidIP, ip)
	}
	if !p.limiter.Allow() {
		return nil, fmt.Errorf("rate limit exceeded for ip-api.com (45 req/min)")
	}

	url := fmt.Sprintf("%s/%s?fields=status,message,countryCode,city", p.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query ip-api.com: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ip-api.com returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode ip-api.com response: %w", err)
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("ip-api.com lookup failed: %s", result.Message)
	}

	return newLocation(result.CountryCode, result.City), nil
}

func newLocation(country, city string) *Location {
	loc := &Location{}
	if country = strings.TrimSpace(country); country != "" {
		loc.Country = &country
	}
	if city = strings.TrimSpace(city); city != "" {
		loc.City = &city
	}
	return loc
}

// ========================================
// Address helpers
// ========================================

var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("100.64.0.0/10"), // carrier-grade NAT
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
}

// IsPrivateIP reports whether ip is loopback, link-local or in a private range.
// Unparseable input is not private.
func IsPrivateIP(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range privatePrefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// IsValidPublicIP reports whether ip can be geolocated.
func IsValidPublicIP(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil || addr.IsUnspecified() {
		return false
	}
	return !IsPrivateIP(ip)
}

// NormalizeIP strips a port and IPv6 brackets:
// "[::1]:8080" -> "::1", "203.0.113.7:443" -> "203.0.113.7".
func NormalizeIP(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		if idx := strings.LastIndex(raw, "]:"); idx != -1 {
			return raw[1:idx]
		}
		return strings.Trim(raw, "[]")
	}
	// A bare IPv6 address has several colons; only host:port has exactly one.
	if strings.Count(raw, ":") == 1 {
		return raw[:strings.LastIndex(raw, ":")]
	}
	return raw
}
