// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/models"
)

type contextKey string

const (
	ClaimsContextKey contextKey = "claims"
	UserContextKey   contextKey = "user"
)

// UserLookup loads a user by id.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Middleware provides authentication middleware
type Middleware struct {
	jwtManager *JWTManager
	users      UserLookup
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(jwtManager *JWTManager, users UserLookup) *Middleware {
	return &Middleware{
		jwtManager: jwtManager,
		users:      users,
	}
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// stores the claims in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "No token provided")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		ctx = logging.ContextWithUserID(ctx, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after Authenticate. It re-reads the user so that a
// revoked flag or deleted account takes effect before the token expires.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			return
		}

		user, err := m.users.GetUserByID(r.Context(), claims.UserID)
		switch {
		case errors.Is(err, models.ErrNotFound):
			writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "User not found")
			return
		case err != nil:
			logging.Ctx(r.Context()).Error().Err(err).Msg("Admin check failed")
			writeAuthError(w, r, http.StatusInternalServerError, "STORE_ERROR", "Server error")
			return
		case !user.IsAdmin:
			writeAuthError(w, r, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaims returns the claims stored by Authenticate.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated user id, or 0.
func UserIDFromContext(ctx context.Context) int64 {
	if claims, ok := GetClaims(ctx); ok {
		return claims.UserID
	}
	return 0
}

// AdminFromContext returns the user loaded by RequireAdmin.
func AdminFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{
		Success: false,
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
	})
}
