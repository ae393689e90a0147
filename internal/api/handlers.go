// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import (
	"time"

	"github.com/tomtom215/linkpulse/internal/analytics"
	"github.com/tomtom215/linkpulse/internal/auth"
	"github.com/tomtom215/linkpulse/internal/config"
	"github.com/tomtom215/linkpulse/internal/database"
	"github.com/tomtom215/linkpulse/internal/redirect"
)

// Handler contains dependencies for API handlers
type Handler struct {
	db         *database.DB
	resolver   *redirect.Resolver
	analytics  *analytics.Aggregator
	jwtManager *auth.JWTManager
	config     *config.Config
	startTime  time.Time
}

// NewHandler creates the API handler.
//
//	recorder := clicks.NewRecorder(db, geoResolver)
//	handler := api.NewHandler(db, redirect.NewResolver(db, recorder),
//	    analytics.NewAggregator(db), jwtManager, cfg)
func NewHandler(db *database.DB, resolver *redirect.Resolver, agg *analytics.Aggregator, jwtManager *auth.JWTManager, cfg *config.Config) *Handler {
	return &Handler{
		db:         db,
		resolver:   resolver,
		analytics:  agg,
		jwtManager: jwtManager,
		config:     cfg,
		startTime:  time.Now(),
	}
}
