// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/linkpulse/internal/auth"
	"github.com/tomtom215/linkpulse/internal/geoip"
	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/models"
)

// AdminStats handles GET /api/admin/stats.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.SystemStats(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// AdminUsers handles GET /api/admin/users.
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pageParams(r, h.config.API.DefaultPageSize, h.config.API.MaxPageSize)

	users, total, err := h.db.ListUsersWithStats(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users":      users,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// AdminURLs handles GET /api/admin/urls.
func (h *Handler) AdminURLs(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pageParams(r, h.config.API.DefaultPageSize, h.config.API.MaxPageSize)

	links, total, err := h.db.ListAllLinks(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"urls":       links,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// AdminURLAnalytics handles GET /api/admin/urls/{id}/analytics.
func (h *Handler) AdminURLAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	report, err := h.analytics.ForAdmin(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, "URL not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// AdminDeleteURL handles DELETE /api/admin/urls/{id}.
func (h *Handler) AdminDeleteURL(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	deleted, err := h.db.DeleteLink(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, "URL not found")
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("link_id", deleted.ID).
		Str("short_code", deleted.ShortCode).
		Msg("Admin deleted link")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "URL deleted successfully",
		"deletedUrl": deleted,
	})
}

// AdminBanUser handles PATCH /api/admin/users/{id}/ban. A ban removes every
// link the user owns; there is no persistent ban flag, so unbanning only
// acknowledges the request.
func (h *Handler) AdminBanUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "id")
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	var req BanUserRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	if admin, ok := auth.AdminFromContext(ctx); ok && admin.ID == id {
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, "Cannot ban yourself")
		return
	}

	if _, err := h.db.GetUserByID(ctx, id); err != nil {
		writeDomainError(w, r, err, "User not found")
		return
	}

	if !*req.Banned {
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User unbanned"})
		return
	}

	removed, err := h.db.DeleteLinksByUser(ctx, id)
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	logging.Ctx(ctx).Warn().
		Int64("banned_user_id", id).
		Int64("links_removed", removed).
		Msg("User banned")

	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User banned - all URLs deleted"})
}

// AdminClicks handles GET /api/admin/clicks.
func (h *Handler) AdminClicks(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pageParams(r, defaultClicksPageSize, h.config.API.MaxPageSize)

	list, total, err := h.db.ListAllClicks(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"clicks":     list,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// AdminBannedIPs handles GET /api/admin/banned-ips.
func (h *Handler) AdminBannedIPs(w http.ResponseWriter, r *http.Request) {
	list, err := h.db.ListBannedIPs(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// AdminBanIP handles POST /api/admin/banned-ips.
func (h *Handler) AdminBanIP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BanIPRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	var bannedBy *int64
	if admin, ok := auth.AdminFromContext(ctx); ok {
		bannedBy = &admin.ID
	}

	entry, err := h.db.BanIP(ctx, geoip.NormalizeIP(strings.TrimSpace(req.IPAddress)), req.Reason, bannedBy)
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	logging.Ctx(ctx).Warn().Str("ip", entry.IPAddress).Msg("IP address banned")
	writeJSON(w, http.StatusCreated, entry)
}

// AdminUnbanIP handles DELETE /api/admin/banned-ips/{ip}.
func (h *Handler) AdminUnbanIP(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(chi.URLParam(r, "ip"))
	if err != nil || raw == "" {
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid IP address")
		return
	}

	if err := h.db.UnbanIP(r.Context(), geoip.NormalizeIP(raw)); err != nil {
		writeDomainError(w, r, err, "IP address not found")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "IP unbanned"})
}
