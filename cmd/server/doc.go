// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

/*
Command server runs the Linkpulse HTTP service.

Startup order:

 1. Configuration via koanf (defaults, optional YAML file, environment)
 2. zerolog initialization
 3. Store: DuckDB by default, or PostgreSQL when DATABASE_DRIVER=postgres
 4. JWT manager, geo resolver, click recorder, redirect resolver and
    analytics aggregator
 5. Chi router with CORS, rate limiting, metrics and auth middleware
 6. suture supervisor tree running the HTTP server and, on DuckDB, the
    periodic checkpoint service

SIGINT or SIGTERM cancels the tree. The HTTP server drains in-flight
requests for up to SHUTDOWN_TIMEOUT before the store is closed.

Common environment variables:

	JWT_SECRET        signing key for bearer tokens (required)
	HTTP_PORT         listen port, default 5000
	BASE_URL          prefix for shortUrl in responses
	DATABASE_DRIVER   duckdb | postgres
	DUCKDB_PATH       DuckDB file path
	DATABASE_URL      PostgreSQL DSN for the postgres driver
	GEOIP_PROVIDER    none | ipapi | maxmind | auto
	LOG_LEVEL         trace | debug | info | warn | error
	LOG_FORMAT        json | console

Example:

	export JWT_SECRET=$(openssl rand -base64 32)
	export BASE_URL=https://lnk.example
	./linkpulse

Maintenance tasks (expired link cleanup, admin promotion) live in the
linkctl command.
*/
package main
