// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tomtom215/linkpulse/internal/config"
	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/metrics"
	"github.com/tomtom215/linkpulse/internal/models"
)

const defaultQueryTimeout = 10 * time.Second

// DB wraps the SQL connection pool and provides link store operations.
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	driver string

	// Per-link write locks for concurrent click recording under DuckDB
	linkLocks sync.Map

	// Per-code locks for custom code inserts under DuckDB
	codeLocks sync.Map
}

// New opens the store selected by cfg.Driver and bootstraps the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverDuckDB
	}

	var (
		conn *sql.DB
		err  error
	)
	switch driver {
	case config.DriverDuckDB:
		conn, err = openDuckDB(cfg)
	case config.DriverPostgres:
		conn, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	db := &DB{
		conn:   conn,
		cfg:    cfg,
		driver: driver,
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.enableProfiling(); err != nil {
		logging.Warn().Err(err).Msg("Query profiling not enabled")
	}

	logging.Info().Str("driver", driver).Int("max_open_conns", db.maxOpenConns()).Msg("Link store ready")
	return db, nil
}

func openDuckDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	// Extensions are never needed; disable auto-install so restricted networks cannot hang startup.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return conn, nil
}

func openPostgres(cfg *config.DatabaseConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres driver requires database.dsn")
	}

	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return conn, nil
}

// Driver returns the active dialect: duckdb or postgres.
func (db *DB) Driver() string {
	return db.driver
}

// Conn returns the underlying SQL connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) isDuckDB() bool {
	return db.driver == config.DriverDuckDB
}

// Close checkpoints DuckDB and closes the pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	if db.isDuckDB() {
		// Flush the WAL so the next startup does not have to replay it.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Checkpoint(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}

	return db.conn.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	ctx, cancel := db.opContext(ctx)
	defer cancel()
	defer db.recordPoolStats()
	if err := db.conn.PingContext(ctx); err != nil {
		return db.storeError(ctx, "ping", err)
	}
	return nil
}

// initialize creates tables and indexes
func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return err
	}
	if err := db.createIndexes(); err != nil {
		return err
	}

	if db.isDuckDB() {
		checkpointCtx, checkpointCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer checkpointCancel()
		if err := db.Checkpoint(checkpointCtx); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint after schema initialization")
		}
	}
	return nil
}

// opContext bounds a store operation by the configured query timeout.
func (db *DB) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := db.cfg.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// storeError classifies a driver error. Deadlines become ErrStoreTimeout,
// everything else ErrStore with the driver error still reachable.
func (db *DB) storeError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", models.ErrStoreTimeout, op)
	}
	if isConnectionError(err) {
		logging.Error().Err(err).Str("operation", op).Msg("Database connection lost")
	}
	return fmt.Errorf("%w: %s: %w", models.ErrStore, op, err)
}

// observe records query metrics for a finished store operation.
func observe(operation, table string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}
