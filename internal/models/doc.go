// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

/*
Package models defines the data structures shared by the store, the core
services and the HTTP layer.

Key Components:

  - ShortLink: a short code mapped to a target URL, with owner, expiry and click counter
  - ClickEvent: one recorded visit with derived browser, OS, device and location
  - User, BannedIP: accounts and signup blocks
  - LinkAnalytics, SystemStats: aggregated reports
  - Error classes: ErrValidation, ErrConflict, ErrNotFound, ErrExpired, ErrStore

JSON Serialization:

Row-shaped types (ShortLink, ClickEvent, AdminUser, ...) use snake_case keys.
Top-level report and response objects (LinkAnalytics, SystemStats,
CreateLinkResponse) use camelCase keys. Existing dashboard clients depend on
both shapes.

Error Handling:

Every specific sentinel wraps exactly one class, so handlers only need to test
the class:

	switch {
	case errors.Is(err, models.ErrNotFound):
	    // 404
	case errors.Is(err, models.ErrValidation):
	    // 400
	}
*/
package models
