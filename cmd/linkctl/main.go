// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

// Command linkctl runs Linkpulse maintenance tasks against the configured
// store. It reads the same configuration as the server.
//
//	linkctl cleanup
//	linkctl promote-admin ops@example.com
package main

import (
	"os"

	"github.com/tomtom215/linkpulse/internal/config"
	"github.com/tomtom215/linkpulse/internal/database"
	"github.com/tomtom215/linkpulse/internal/logging"
)

func main() {
	deps := commandDeps{
		loadConfig: config.LoadWithKoanf,
		openStore: func(cfg *config.DatabaseConfig) (maintenanceStore, error) {
			return database.New(cfg)
		},
	}

	if err := newRootCmd(deps).Execute(); err != nil {
		logging.Error().Err(err).Msg("linkctl failed")
		os.Exit(1)
	}
}
