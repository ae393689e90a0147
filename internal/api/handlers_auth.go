// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/linkpulse/internal/auth"
	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/models"
)

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SignupRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	ip := clientIP(r)
	if ip != "" {
		banned, err := h.db.IsIPBanned(ctx, ip)
		if err != nil {
			writeDomainError(w, r, err, "")
			return
		}
		if banned {
			logging.Ctx(ctx).Warn().Str("ip", ip).Msg("Signup rejected from banned IP")
			writeError(w, r, http.StatusForbidden, ErrCodeForbidden, "Signups from this IP address are blocked")
			return
		}
	}

	hash, err := auth.HashPassword(req.Password, h.config.Security.BcryptCost)
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	user, err := h.db.CreateUser(ctx, strings.TrimSpace(req.Username), strings.TrimSpace(req.Email), hash)
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	user, err := h.db.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int64("user_id", user.ID).Msg("Stored password hash is unreadable")
	}
	if !ok {
		writeError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid credentials")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := h.jwtManager.GenerateToken(user.ID)
	if err != nil {
		writeDomainError(w, r, err, "")
		return
	}
	writeJSON(w, status, models.AuthResponse{User: user.Public(), Token: token})
}
