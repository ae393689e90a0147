// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

/*
database_connection.go - Pool Configuration, Locks and Conflict Retry

Connection Pool Configuration:
  - MaxOpenConns: database.max_open_conns (default 5)
  - MaxIdleConns: database.max_idle_conns (default 2)
  - ConnMaxLifetime: 1 hour to prevent stale connections
  - ConnMaxIdleTime: 5 minutes for idle connection cleanup

DuckDB Write Concurrency:
DuckDB reports concurrent updates of the same row as a transaction conflict
rather than waiting. Writers on the same link take a per-link mutex and
conflicts that still occur are retried up to 3 times (1ms, 2ms, 4ms).

Error Detection:
Unique violations are detected per dialect: the DuckDB constraint message, or
SQLSTATE 23505 from pgconn.PgError.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/metrics"
)

const (
	maxRetries = 3

	pgUniqueViolation = "23505"
)

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(db.maxOpenConns())
	idle := db.cfg.MaxIdleConns
	if idle <= 0 {
		idle = 2
	}
	db.conn.SetMaxIdleConns(idle)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

func (db *DB) maxOpenConns() int {
	if db.cfg.MaxOpenConns > 0 {
		return db.cfg.MaxOpenConns
	}
	return 5
}

// recordPoolStats exports the in-use connection count.
func (db *DB) recordPoolStats() {
	metrics.DBConnectionsInUse.Set(float64(db.conn.Stats().InUse))
}

// acquireKeyLock acquires a per-key mutex from locks.
func acquireKeyLock(locks *sync.Map, key any) *sync.Mutex {
	muInterface, _ := locks.LoadOrStore(key, &sync.Mutex{})
	mu, ok := muInterface.(*sync.Mutex)
	if !ok {
		mu = &sync.Mutex{}
		locks.Store(key, mu)
	}
	mu.Lock()
	return mu
}

// lockLink serializes writers on one link under DuckDB. The returned func
// releases the lock and is a no-op under Postgres.
func (db *DB) lockLink(linkID int64) func() {
	if !db.isDuckDB() {
		return func() {}
	}
	mu := acquireKeyLock(&db.linkLocks, linkID)
	return mu.Unlock
}

// lockCode serializes inserts of the same short code under DuckDB.
func (db *DB) lockCode(code string) func() {
	if !db.isDuckDB() {
		return func() {}
	}
	mu := acquireKeyLock(&db.codeLocks, code)
	return mu.Unlock
}

// withConflictRetry runs fn, retrying DuckDB transaction conflicts with
// exponential backoff. Other errors are returned immediately.
func withConflictRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return err
		}
		if !isTransactionConflict(err) {
			return err
		}

		metrics.DBTransactionRetries.WithLabelValues(operation).Inc()
		if attempt < maxRetries-1 {
			backoff := time.Millisecond * time.Duration(1<<uint(attempt)) // 1ms, 2ms, 4ms
			logging.Debug().Str("operation", operation).Int("attempt", attempt+1).Dur("backoff", backoff).Msg("Transaction conflict, retrying")
			select {
			case <-time.After(backoff):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update") ||
		strings.Contains(errStr, "cannot update a table that has been altered")
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY violation
// in either dialect.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Duplicate key") ||
		strings.Contains(errStr, "violates unique constraint") ||
		strings.Contains(errStr, "violates primary key constraint")
}

// isConnectionError checks if an error indicates database connection loss
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "broken pipe") ||
		strings.Contains(errMsg, "bad connection") ||
		strings.Contains(errMsg, "database is closed")
}
