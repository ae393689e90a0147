// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

/*
database_schema.go - Database Schema Management

Tables:
  - users: accounts (username and email unique)
  - urls: short links; short_code UNIQUE is the authority on code ownership
  - clicks: one row per recorded visit
  - banned_ips: addresses refused at signup

Dialects:
DuckDB gets sequences for ids and no foreign keys; DuckDB cannot cascade and
its FK checks reject the in-place UPDATE of urls.clicks. Deletes cascade
explicitly inside a transaction instead. Postgres gets BIGSERIAL ids and
ON DELETE CASCADE foreign keys.

Every statement is idempotent (IF NOT EXISTS) and runs at startup.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func (db *DB) getTableCreationQueries() []string {
	if db.isDuckDB() {
		return duckDBTables
	}
	return postgresTables
}

var duckDBTables = []string{
	`CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS urls_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS clicks_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS banned_ips_id_seq START 1`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
		username VARCHAR NOT NULL UNIQUE,
		email VARCHAR NOT NULL UNIQUE,
		password_hash VARCHAR NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS urls (
		id BIGINT PRIMARY KEY DEFAULT nextval('urls_id_seq'),
		user_id BIGINT NOT NULL,
		short_code VARCHAR NOT NULL UNIQUE,
		original_url VARCHAR NOT NULL,
		title VARCHAR,
		description VARCHAR,
		clicks BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS clicks (
		id BIGINT PRIMARY KEY DEFAULT nextval('clicks_id_seq'),
		url_id BIGINT NOT NULL,
		user_agent VARCHAR NOT NULL DEFAULT '',
		ip_address VARCHAR NOT NULL DEFAULT '',
		referer VARCHAR,
		country VARCHAR,
		city VARCHAR,
		browser VARCHAR NOT NULL DEFAULT '',
		os VARCHAR NOT NULL DEFAULT '',
		device_type VARCHAR NOT NULL DEFAULT 'desktop',
		clicked_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS banned_ips (
		id BIGINT PRIMARY KEY DEFAULT nextval('banned_ips_id_seq'),
		ip_address VARCHAR NOT NULL UNIQUE,
		reason VARCHAR,
		banned_at TIMESTAMP NOT NULL,
		banned_by BIGINT
	)`,
}

var postgresTables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS urls (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		short_code TEXT NOT NULL UNIQUE,
		original_url TEXT NOT NULL,
		title TEXT,
		description TEXT,
		clicks BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS clicks (
		id BIGSERIAL PRIMARY KEY,
		url_id BIGINT NOT NULL REFERENCES urls(id) ON DELETE CASCADE,
		user_agent TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT '',
		referer TEXT,
		country TEXT,
		city TEXT,
		browser TEXT NOT NULL DEFAULT '',
		os TEXT NOT NULL DEFAULT '',
		device_type TEXT NOT NULL DEFAULT 'desktop',
		clicked_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS banned_ips (
		id BIGSERIAL PRIMARY KEY,
		ip_address TEXT NOT NULL UNIQUE,
		reason TEXT,
		banned_at TIMESTAMPTZ NOT NULL,
		banned_by BIGINT REFERENCES users(id) ON DELETE SET NULL
	)`,
}

// createIndexes creates indexes for the hot query paths
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	// short_code lookups are served by its UNIQUE constraint.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_urls_user_id ON urls(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_urls_created_at ON urls(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_urls_expires_at ON urls(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_clicks_url_id ON clicks(url_id)`,
		`CREATE INDEX IF NOT EXISTS idx_clicks_clicked_at ON clicks(clicked_at)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
