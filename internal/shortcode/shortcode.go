// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

// Package shortcode generates random short codes and validates custom ones.
//
// Random codes are 7 characters from the URL-safe alphabet. The store's
// UNIQUE constraint is the only authority on uniqueness: GenerateUnique
// retries a bounded number of times when the insert reports a collision.
package shortcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"

	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/models"
)

const (
	// Alphabet is the URL-safe character set for generated codes.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

	// Length of generated codes.
	Length = 7

	// MaxAttempts bounds GenerateUnique.
	MaxAttempts = 3

	MinCustomLength = 3
	MaxCustomLength = 20
)

var customPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// Generate returns a random code of Length characters.
// len(Alphabet) is 64, so masking a random byte keeps the draw uniform.
func Generate() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = Alphabet[b&63]
	}
	return string(buf), nil
}

// ValidateCustom checks a user-supplied code. Codes are case-sensitive and
// never normalized.
func ValidateCustom(code string) error {
	if !customPattern.MatchString(code) {
		return models.ErrInvalidFormat
	}
	return nil
}

// InsertFunc persists a link under code. It must return an error wrapping
// models.ErrCodeAlreadyTaken when the code collides with an existing one.
type InsertFunc func(ctx context.Context, code string) error

// GenerateUnique draws codes and calls insert until one is accepted.
// Collisions are retried up to MaxAttempts; any other error is returned as is.
func GenerateUnique(ctx context.Context, insert InsertFunc) (string, error) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := Generate()
		if err != nil {
			return "", err
		}

		err = insert(ctx, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, models.ErrCodeAlreadyTaken) {
			return "", err
		}

		logging.Debug().
			Str("code", code).
			Int("attempt", attempt).
			Int("max_attempts", MaxAttempts).
			Msg("Generated short code collided, retrying")
	}
	return "", models.ErrCodeGenerationExhausted
}
