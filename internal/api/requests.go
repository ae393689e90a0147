// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import "time"

// Request bodies validated with go-playground/validator tags. Field names in
// validation messages come from the json tags.

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateLinkRequest is the body of POST /api/urls/create.
type CreateLinkRequest struct {
	OriginalURL     string     `json:"originalUrl" validate:"required,absurl"`
	CustomShortCode string     `json:"customShortCode" validate:"omitempty,shortcode"`
	Title           *string    `json:"title" validate:"omitempty,max=255"`
	Description     *string    `json:"description" validate:"omitempty,max=2000"`
	ExpiresAt       *time.Time `json:"expiresAt"`
}

// BanUserRequest is the body of PATCH /api/admin/users/{id}/ban.
// Banned is a pointer so that a missing field is rejected.
type BanUserRequest struct {
	Banned *bool `json:"banned" validate:"required"`
}

// BanIPRequest is the body of POST /api/admin/banned-ips.
type BanIPRequest struct {
	IPAddress string  `json:"ipAddress" validate:"required,ip"`
	Reason    *string `json:"reason" validate:"omitempty,max=500"`
}
