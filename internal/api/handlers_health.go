// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/models"
)

// diagTimeout bounds the database ping.
const diagTimeout = 5 * time.Second

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

// DiagDB handles GET /api/diag/db.
func (h *Handler) DiagDB(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), diagTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Database diagnostic failed")
		writeJSON(w, http.StatusInternalServerError, models.DBDiagResponse{
			Status:    "error",
			LatencyMS: latency,
			Error:     err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, models.DBDiagResponse{
		Status:    "ok",
		LatencyMS: latency,
		Driver:    h.db.Driver(),
	})
}
