// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package models

import (
	"errors"
	"fmt"
)

// Error classes. The API layer maps each class to one HTTP status, so
// callers test with errors.Is against the class, not the specific sentinel.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrExpired    = errors.New("expired")
	ErrStore      = errors.New("store error")
)

// Specific errors, each wrapping its class.
var (
	ErrInvalidURL    = fmt.Errorf("%w: invalid URL", ErrValidation)
	ErrInvalidFormat = fmt.Errorf("%w: short code must be 3-20 characters of letters, digits, '-' or '_'", ErrValidation)
	ErrInvalidInput  = fmt.Errorf("%w: invalid input", ErrValidation)

	ErrCodeAlreadyTaken = fmt.Errorf("%w: short code already in use", ErrConflict)
	ErrUserExists       = fmt.Errorf("%w: username or email already exists", ErrConflict)

	ErrCodeGenerationExhausted = fmt.Errorf("%w: could not generate a unique short code", ErrStore)
	ErrStoreTimeout            = fmt.Errorf("%w: operation timed out", ErrStore)
)
