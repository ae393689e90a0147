// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/models"
	"github.com/tomtom215/linkpulse/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeExpired          = "EXPIRED"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeStore            = "STORE_ERROR"
	ErrCodeTimeout          = "TIMEOUT"
)

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// writeError writes the error envelope.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeErrorWithDetails(w, r, status, code, message, nil)
}

func writeErrorWithDetails(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	writeJSON(w, status, models.ErrorResponse{
		Success: false,
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
	})
}

// writeDomainError maps an error class to its HTTP status. notFound is the
// message used for models.ErrNotFound. Store failures are logged here.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var reqErr *validation.RequestValidationError
	switch {
	case errors.As(err, &reqErr):
		writeErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeValidation, reqErr.Error(), reqErr.Details())

	case errors.Is(err, models.ErrUserExists):
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, "Username or email already exists")

	case errors.Is(err, models.ErrInvalidURL):
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid URL")

	case errors.Is(err, models.ErrValidation):
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, classMessage(err, models.ErrValidation))

	case errors.Is(err, models.ErrCodeAlreadyTaken):
		writeError(w, r, http.StatusConflict, ErrCodeConflict, "Short code already in use")

	case errors.Is(err, models.ErrConflict):
		writeError(w, r, http.StatusConflict, ErrCodeConflict, classMessage(err, models.ErrConflict))

	case errors.Is(err, models.ErrNotFound):
		writeError(w, r, http.StatusNotFound, ErrCodeNotFound, notFound)

	case errors.Is(err, models.ErrExpired):
		writeError(w, r, http.StatusGone, ErrCodeExpired, "URL has expired")

	case errors.Is(err, models.ErrStoreTimeout):
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Store operation timed out")
		writeError(w, r, http.StatusInternalServerError, ErrCodeTimeout, "Request timed out")

	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, r, http.StatusInternalServerError, ErrCodeStore, "Server error")
	}
}

// classMessage strips the "<class>: " prefix so clients see the specific
// reason only.
func classMessage(err, class error) string {
	msg := err.Error()
	if trimmed := strings.TrimPrefix(msg, class.Error()+": "); trimmed != "" {
		return trimmed
	}
	return msg
}
