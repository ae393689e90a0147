// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

// Package useragent classifies raw User-Agent headers into browser, OS and
// device type for click analytics.
package useragent

import (
	"strings"

	"github.com/mssola/useragent"

	"github.com/tomtom215/linkpulse/internal/models"
)

// Info is the classification of one User-Agent string.
type Info struct {
	Browser    string
	OS         string
	DeviceType string // mobile, tablet or desktop
	Bot        bool
}

// tabletMarkers are lower-case substrings that identify tablets. They are
// checked before the mobile flag because most tablets also claim "Mobile".
var tabletMarkers = []string{
	"ipad",
	"tablet",
	"kindle",
	"silk/",
	"playbook",
}

// osAliases maps the names the parser reports to the labels shown in reports.
var osAliases = map[string]string{
	"iPhone OS": "iOS",
	"OS":        "iOS", // iPad: "CPU OS 17_0 like Mac OS X"
	"Mac OS X":  "macOS",
	"Mac OS":    "macOS",
	"CrOS":      "Chrome OS",
}

// Parse classifies raw. Fields that cannot be detected are reported as
// models.UnknownLabel; the device type defaults to desktop.
func Parse(raw string) Info {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Info{Browser: models.UnknownLabel, OS: models.UnknownLabel, DeviceType: models.DeviceDesktop}
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()

	return Info{
		Browser:    orUnknown(browser),
		OS:         orUnknown(normalizeOS(ua.OSInfo().Name, raw)),
		DeviceType: deviceType(ua, raw),
		Bot:        ua.Bot(),
	}
}

func normalizeOS(name, raw string) string {
	if alias, ok := osAliases[name]; ok {
		return alias
	}
	switch {
	case strings.HasPrefix(name, "Windows"):
		return "Windows"
	case strings.HasPrefix(name, "Android"):
		return "Android"
	}

	// The parser leaves some platforms unnamed; fall back to the raw header.
	if name == "" {
		lower := strings.ToLower(raw)
		switch {
		case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"):
			return "iOS"
		case strings.Contains(lower, "android"):
			return "Android"
		case strings.Contains(lower, "windows"):
			return "Windows"
		case strings.Contains(lower, "mac os x"):
			return "macOS"
		case strings.Contains(lower, "linux"):
			return "Linux"
		}
	}
	return name
}

func deviceType(ua *useragent.UserAgent, raw string) string {
	lower := strings.ToLower(raw)

	for _, marker := range tabletMarkers {
		if strings.Contains(lower, marker) {
			return models.DeviceTablet
		}
	}
	// Android tablets omit "Mobile" from the header.
	if strings.Contains(lower, "android") && !strings.Contains(lower, "mobile") {
		return models.DeviceTablet
	}

	if ua.Mobile() || strings.Contains(lower, "mobile") || strings.Contains(lower, "iphone") {
		return models.DeviceMobile
	}
	return models.DeviceDesktop
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.UnknownLabel
	}
	return s
}
