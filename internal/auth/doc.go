// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

/*
Package auth provides password hashing, JWT bearer tokens and the
authentication middleware for the Linkpulse API.

Key Components:

  - JWTManager: HS256 tokens carrying {"userId": n}, valid for the session timeout
  - HashPassword / CheckPassword: bcrypt with the configured cost
  - Middleware: Authenticate for owner routes, RequireAdmin for /api/admin

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	authMW := auth.NewMiddleware(jwtManager, db)

	r.Group(func(r chi.Router) {
	    r.Use(authMW.Authenticate)
	    r.Get("/api/urls", h.ListLinks)
	})
	r.Route("/api/admin", func(r chi.Router) {
	    r.Use(authMW.Authenticate, authMW.RequireAdmin)
	    r.Get("/stats", h.AdminStats)
	})

Tokens are stateless. A token for a deleted user still validates, so
RequireAdmin re-reads the user and answers 401 when the row is gone.
*/
package auth
