// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validateHTTPURL checks an http(s) base URL: scheme, host, no query or fragment.
// A path prefix is allowed so the service can live behind a reverse proxy.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return fmt.Errorf("%s should not contain query parameters or fragments", fieldName)
	}

	return nil
}

// ShortURL joins the configured base URL and a short code.
func (s ServerConfig) ShortURL(code string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + code
}
