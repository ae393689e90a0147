// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/linkpulse/internal/geoip"
	"github.com/tomtom215/linkpulse/internal/models"
	"github.com/tomtom215/linkpulse/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// defaultClicksPageSize is the admin clicks listing default.
const defaultClicksPageSize = 50

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// Malformed JSON and failed validation both wrap models.ErrValidation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", models.ErrValidation)
		}
		return fmt.Errorf("%w: invalid JSON body", models.ErrValidation)
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", models.ErrValidation, name)
	}
	return id, nil
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// pageParams reads ?page and ?limit. Missing, malformed or non-positive
// values fall back to the defaults and limit is capped at maxLimit.
func pageParams(r *http.Request, defaultLimit, maxLimit int) (page, limit, offset int) {
	page = getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit = getIntParam(r, "limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}

// clientIP returns the caller address without port. RealIP has already
// replaced RemoteAddr when a forwarding header was present.
func clientIP(r *http.Request) string {
	return geoip.NormalizeIP(r.RemoteAddr)
}
