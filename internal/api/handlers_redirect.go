// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/linkpulse/internal/clicks"
)

// Redirect handles GET /{shortCode}. The click is recorded before the
// redirect is written; a client disconnect does not cancel the write.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "shortCode")

	target, err := h.resolver.Resolve(context.WithoutCancel(r.Context()), code, clicks.Visit{
		UserAgent: r.UserAgent(),
		ClientIP:  clientIP(r),
		Referrer:  r.Referer(),
	})
	if err != nil {
		writeDomainError(w, r, err, "URL not found")
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}
