// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package models

import (
	"fmt"
	"net/url"
	"time"
)

// MaxTargetURLLength bounds original_url.
const MaxTargetURLLength = 2048

// ShortLink maps a short code to a target URL.
// ShortCode is unique and never changes after creation. Clicks is only
// mutated by the click recorder.
type ShortLink struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Clicks      int64      `json:"clicks"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// IsExpired reports whether the link has an expiry strictly before now.
func (l *ShortLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// LinkOptions carries the optional fields of a new link.
type LinkOptions struct {
	Title       *string
	Description *string
	ExpiresAt   *time.Time
}

// AdminLink is a link joined with its owner for the admin listing.
type AdminLink struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	Title       *string    `json:"title"`
	Clicks      int64      `json:"clicks"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
}

// DeletedLink identifies a link removed by an admin or by cleanup.
type DeletedLink struct {
	ID        int64  `json:"id"`
	ShortCode string `json:"short_code"`
}

// ValidateTargetURL checks that raw is an absolute URL with a scheme and host.
// No reachability check is made.
func ValidateTargetURL(raw string) error {
	if raw == "" || len(raw) > MaxTargetURLLength {
		return ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}
