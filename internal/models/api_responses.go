// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package models

import "time"

// ErrorResponse is the envelope written for every failed request.
//
//	{
//	  "success": false,
//	  "error": {
//	    "code": "NOT_FOUND",
//	    "message": "URL not found",
//	    "request_id": "0f6c..."
//	  }
//	}
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

// APIError carries a machine-readable code and a human-readable message.
//
// Codes in use:
//   - VALIDATION_ERROR: bad URL, short code format or request body
//   - CONFLICT: short code already taken
//   - NOT_FOUND: unknown or not owned link
//   - EXPIRED: link past its expiry
//   - UNAUTHORIZED / FORBIDDEN: missing token or admin flag
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - STORE_ERROR / TIMEOUT: database failure
type APIError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// Pagination describes one page of an admin listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes the page count for total rows.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// CreateLinkResponse is returned by POST /api/urls/create.
type CreateLinkResponse struct {
	ID          int64     `json:"id"`
	ShortCode   string    `json:"shortCode"`
	ShortURL    string    `json:"shortUrl"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// DBDiagResponse is returned by GET /api/diag/db.
type DBDiagResponse struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
	Driver    string `json:"driver,omitempty"`
	Error     string `json:"error,omitempty"`
}
