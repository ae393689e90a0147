// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

// Package config loads Linkpulse configuration.
//
// Sources are layered with Koanf v2, later layers winning:
//  1. Defaults from defaultConfig()
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/linkpulse/config.yaml)
//  3. Environment variables (JWT_SECRET, HTTP_PORT, DATABASE_DRIVER, ...)
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	db, err := database.New(&cfg.Database)
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	GeoIP    GeoIPConfig    `koanf:"geoip"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	BaseURL         string        `koanf:"base_url"` // Prefix for shortUrl in responses, e.g. https://lnk.example
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Supported database drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds link store settings
type DatabaseConfig struct {
	Driver       string        `koanf:"driver"` // duckdb or postgres
	Path         string        `koanf:"path"`   // DuckDB file, ":memory:" for an ephemeral store
	DSN          string        `koanf:"dsn"`    // Postgres connection string
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"` // DuckDB threads (0 = NumCPU)
	MaxOpenConns int           `koanf:"max_open_conns"`
	MaxIdleConns int           `koanf:"max_idle_conns"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// APIConfig holds pagination settings for list endpoints
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication, CORS and rate limiting settings
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	BcryptCost        int           `koanf:"bcrypt_cost"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// GeoIP provider names.
const (
	GeoIPProviderNone    = "none"
	GeoIPProviderIPAPI   = "ipapi"
	GeoIPProviderMaxMind = "maxmind"
	GeoIPProviderAuto    = "auto" // MaxMind when credentials exist, then ip-api.com
)

// GeoIPConfig holds click geolocation settings
type GeoIPConfig struct {
	Provider          string        `koanf:"provider"`
	MaxMindAccountID  string        `koanf:"maxmind_account_id"`
	MaxMindLicenseKey string        `koanf:"maxmind_license_key"`
	LookupTimeout     time.Duration `koanf:"lookup_timeout"`

	// Circuit breaker around the provider chain.
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `koanf:"breaker_open_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}
