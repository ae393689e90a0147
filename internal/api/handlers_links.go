// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/linkpulse/internal/auth"
	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/metrics"
	"github.com/tomtom215/linkpulse/internal/models"
	"github.com/tomtom215/linkpulse/internal/shortcode"
)

// reservedCodes shadow fixed routes and cannot be claimed.
var reservedCodes = map[string]struct{}{
	"api":     {},
	"metrics": {},
}

// CreateLink handles POST /api/urls/create.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := auth.UserIDFromContext(ctx)

	var req CreateLinkRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	opts := models.LinkOptions{
		Title:       req.Title,
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
	}
	if opts.ExpiresAt != nil {
		utc := opts.ExpiresAt.UTC()
		opts.ExpiresAt = &utc
	}

	var (
		link *models.ShortLink
		err  error
	)
	if req.CustomShortCode != "" {
		link, err = h.createCustom(ctx, ownerID, req.OriginalURL, req.CustomShortCode, opts)
	} else {
		link, err = h.createGenerated(ctx, ownerID, req.OriginalURL, opts)
	}
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	logging.Ctx(ctx).Info().
		Int64("link_id", link.ID).
		Str("short_code", link.ShortCode).
		Bool("custom", req.CustomShortCode != "").
		Msg("Short link created")

	writeJSON(w, http.StatusCreated, models.CreateLinkResponse{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		ShortURL:    h.config.Server.ShortURL(link.ShortCode),
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
	})
}

func (h *Handler) createCustom(ctx context.Context, ownerID int64, target, code string, opts models.LinkOptions) (*models.ShortLink, error) {
	if err := shortcode.ValidateCustom(code); err != nil {
		return nil, err
	}
	if _, reserved := reservedCodes[strings.ToLower(code)]; reserved {
		return nil, fmt.Errorf("%w: %s", models.ErrCodeAlreadyTaken, code)
	}

	// Advisory; the unique constraint decides races.
	exists, err := h.db.LinkCodeExists(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", models.ErrCodeAlreadyTaken, code)
	}

	link, err := h.db.CreateLink(ctx, ownerID, target, code, opts)
	if err != nil {
		return nil, err
	}
	metrics.LinksCreated.WithLabelValues("custom").Inc()
	return link, nil
}

func (h *Handler) createGenerated(ctx context.Context, ownerID int64, target string, opts models.LinkOptions) (*models.ShortLink, error) {
	if err := models.ValidateTargetURL(target); err != nil {
		return nil, err
	}

	var link *models.ShortLink
	_, err := shortcode.GenerateUnique(ctx, func(ctx context.Context, code string) error {
		created, err := h.db.CreateLink(ctx, ownerID, target, code, opts)
		if errors.Is(err, models.ErrCodeAlreadyTaken) {
			metrics.CodeCollisions.Inc()
		}
		if err != nil {
			return err
		}
		link = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.LinksCreated.WithLabelValues("generated").Inc()
	return link, nil
}

// ListLinks handles GET /api/urls.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.db.ListLinksByOwner(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// LinkAnalytics handles GET /api/urls/{id}/analytics. Links owned by other
// users are reported as not found.
func (h *Handler) LinkAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	report, err := h.analytics.ForOwner(r.Context(), id, auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err, "URL not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DeleteLink handles DELETE /api/urls/{id}.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	if err := h.db.DeleteOwnedLink(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		writeDomainError(w, r, err, "URL not found")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "URL deleted successfully"})
}
