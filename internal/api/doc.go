// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

/*
Package api provides the HTTP surface of Linkpulse using the Chi router.

Handler methods are split across files:
  - handlers.go: Handler struct and constructor
  - handlers_auth.go: signup and login
  - handlers_links.go: owner link management and analytics
  - handlers_redirect.go: GET /{shortCode}
  - handlers_admin.go: /api/admin reporting and moderation
  - handlers_health.go: health, database diagnostics
  - handlers_helpers.go: body decoding, path and paging parameters

Routing lives in router.go; CORS, rate limiting and security headers in
chi_middleware.go.

Responses:

Success bodies are flat JSON in the shapes existing clients expect
(for example {"user":..., "token":...} or a bare array of links). Every
error uses one envelope:

	{"success": false, "error": {"code": "NOT_FOUND", "message": "URL not found", "request_id": "..."}}

Domain errors are mapped to statuses in one place, writeDomainError:

	validation -> 400, conflict -> 409, not found -> 404,
	expired -> 410, store and timeout -> 500

Middleware Stack:

	RequestID -> RealIP -> Recoverer -> CORS -> PrometheusMetrics
	  /api/auth/*   rate limited per client IP
	  /api/urls/*   Authenticate, stricter limit on create
	  /api/admin/*  Authenticate, RequireAdmin
	  /{shortCode}  public redirect
*/
package api
