// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

// Package testinfra provides container-backed infrastructure for integration tests.
//
// It uses testcontainers-go to run a real PostgreSQL instance so the postgres
// dialect of the link store is exercised against the server it targets:
//
//	func TestStorePostgres(t *testing.T) {
//	    pg := testinfra.SetupPostgres(t)
//	    db, err := database.New(&config.DatabaseConfig{
//	        Driver: config.DriverPostgres,
//	        DSN:    pg.DSN,
//	    })
//	    // ...
//	}
//
// Every file carries the integration build tag. Run with:
//
//	go test -tags integration ./...
//
// Tests are skipped gracefully if Docker is unavailable.
package testinfra
