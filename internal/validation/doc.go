// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

// Package validation provides request validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. On top of the
// built-in tags it registers:
//   - shortcode: a custom short code, [A-Za-z0-9_-]{3,20}
//   - absurl: an absolute target URL with scheme and host, at most 2048 characters
//
// Example:
//
//	type createLinkRequest struct {
//	    OriginalURL     string  `json:"originalUrl" validate:"required,absurl"`
//	    CustomShortCode *string `json:"customShortCode" validate:"omitempty,shortcode"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    // errors.Is(verr, models.ErrValidation) == true
//	}
package validation
