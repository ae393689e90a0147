// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

/*
Package middleware provides HTTP middleware for the chi router.

Key Components:

  - RequestID: accepts or generates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge per route
  - Compression: gzip for JSON API responses when the client accepts it

All middleware use the func(http.Handler) http.Handler shape so they can be
passed to chi's Use and With:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.With(middleware.Compression).Get("/api/urls", h.ListLinks)

The Prometheus endpoint label is the chi route pattern ("/{shortCode}"),
never the raw path, so short codes do not create new series.
*/
package middleware
