// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package models

import "time"

// Device type classifications.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// ClickEvent is one recorded visit to a short link. Rows are never updated.
type ClickEvent struct {
	ID         int64     `json:"id"`
	URLID      int64     `json:"url_id"`
	ClickedAt  time.Time `json:"clicked_at"`
	UserAgent  string    `json:"user_agent"`
	IPAddress  string    `json:"ip_address"`
	Referer    *string   `json:"referer"`
	Country    *string   `json:"country"`
	City       *string   `json:"city"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	DeviceType string    `json:"device_type"`
}

// AdminClick is a click joined with its link and owner for the admin listing.
type AdminClick struct {
	ClickEvent
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}
