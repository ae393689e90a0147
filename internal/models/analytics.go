// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package models

import "time"

// UnknownLabel buckets NULL or empty classification values.
const UnknownLabel = "Unknown"

// Breakdown limits for link analytics.
const (
	RecentClicksLimit = 100
	TopBucketLimit    = 10
)

// LocationCount is a (country, city) bucket.
type LocationCount struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Count   int64  `json:"count"`
}

// BrowserCount is a browser bucket.
type BrowserCount struct {
	Browser string `json:"browser"`
	Count   int64  `json:"count"`
}

// OSCount is an operating system bucket.
type OSCount struct {
	OS    string `json:"os"`
	Count int64  `json:"count"`
}

// DeviceCount is a device type bucket.
type DeviceCount struct {
	DeviceType string `json:"device_type"`
	Count      int64  `json:"count"`
}

// LinkAnalytics is the per-link analytics report.
// Every list is non-nil so that an unclicked link serializes as [].
type LinkAnalytics struct {
	ShortCode    string          `json:"shortCode"`
	TotalClicks  int64           `json:"totalClicks"`
	RecentClicks []ClickEvent    `json:"recentClicks"`
	TopLocations []LocationCount `json:"topLocations"`
	TopBrowsers  []BrowserCount  `json:"topBrowsers"`
	TopOS        []OSCount       `json:"topOS"`
	TopDevices   []DeviceCount   `json:"topDevices"`
}

// UserURLCount ranks users by link count.
type UserURLCount struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	URLCount int64  `json:"url_count"`
}

// RecentUser is a recently created account.
type RecentUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SystemStats is the admin system-wide view.
type SystemStats struct {
	TotalUsers  int64          `json:"totalUsers"`
	TotalURLs   int64          `json:"totalUrls"`
	TotalClicks int64          `json:"totalClicks"`
	ActiveURLs  int64          `json:"activeUrls"`
	ExpiredURLs int64          `json:"expiredUrls"`
	TopUsers    []UserURLCount `json:"topUsers"`
	RecentUsers []RecentUser   `json:"recentUsers"`
}
