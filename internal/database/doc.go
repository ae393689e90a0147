// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

// Package database is the Linkpulse link store.
//
// # Overview
//
// One database/sql implementation serves two dialects:
//   - DuckDB (default): embedded, file-backed or ":memory:" for tests
//   - PostgreSQL: through the pgx stdlib driver, selected by database.driver=postgres
//
// Queries use $n placeholders, which both drivers accept. Only the schema
// bootstrap and the error classifiers are dialect-specific.
//
// # Files
//
//   - database.go: lifecycle (New, Close, Ping) and the per-operation timeout
//   - database_connection.go: pool configuration, per-link locks, conflict retry
//   - database_schema.go: idempotent CREATE ... IF NOT EXISTS bootstrap
//   - crud_links.go: short link records
//   - crud_clicks.go: atomic click recording and the admin click feed
//   - crud_users.go: accounts and admin user listings
//   - crud_banned_ips.go: the signup ban list
//   - analytics.go: per-link analytics and system statistics
//
// # Concurrency
//
// IncrementClicks is a single UPDATE ... SET clicks = clicks + 1 statement and
// RecordClick runs the increment and the click insert in one transaction.
// DuckDB uses optimistic concurrency control, so concurrent writers on the same
// row fail with a transaction conflict instead of blocking. Under DuckDB the
// store serializes writers per link with an in-process lock and retries
// conflicts with exponential backoff (1ms, 2ms, 4ms). Under PostgreSQL the
// row lock taken by the UPDATE gives the same effect.
//
// # Errors
//
// Every operation runs under context.WithTimeout(database.query_timeout).
// Failures are wrapped in models.ErrStore; deadlines become
// models.ErrStoreTimeout; missing rows become models.ErrNotFound; unique
// violations become models.ErrCodeAlreadyTaken or models.ErrUserExists.
package database
