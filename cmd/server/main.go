// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/linkpulse/internal/analytics"
	"github.com/tomtom215/linkpulse/internal/api"
	"github.com/tomtom215/linkpulse/internal/auth"
	"github.com/tomtom215/linkpulse/internal/clicks"
	"github.com/tomtom215/linkpulse/internal/config"
	"github.com/tomtom215/linkpulse/internal/database"
	"github.com/tomtom215/linkpulse/internal/geoip"
	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/metrics"
	"github.com/tomtom215/linkpulse/internal/redirect"
	"github.com/tomtom215/linkpulse/internal/supervisor"
	"github.com/tomtom215/linkpulse/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("driver", cfg.Database.Driver).
		Str("base_url", cfg.Server.BaseURL).
		Str("geoip_provider", cfg.GeoIP.Provider).
		Msg("Starting Linkpulse")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	metrics.AppInfo.WithLabelValues(version, db.Driver()).Set(1)

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		// Fatal skips deferred calls
		_ = db.Close()
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	geoResolver := geoip.NewFromConfig(&cfg.GeoIP)
	var locator clicks.Locator
	if geoResolver.Enabled() {
		locator = geoResolver
	} else {
		logging.Info().Msg("GeoIP lookups disabled; clicks are stored without location")
	}

	recorder := clicks.NewRecorder(db, locator)
	handler := api.NewHandler(
		db,
		redirect.NewResolver(db, recorder),
		analytics.NewAggregator(db),
		jwtManager,
		cfg,
	)
	router := api.NewRouter(
		handler,
		auth.NewMiddleware(jwtManager, db),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeConfig)
	if err != nil {
		_ = db.Close()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Database.Driver == config.DriverDuckDB {
		tree.AddDataService(services.NewCheckpointService(db, services.DefaultCheckpointInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Linkpulse stopped")
	if len(unstopped) > 0 {
		_ = db.Close()
		os.Exit(1)
	}
}
