// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/linkpulse/internal/auth"
	"github.com/tomtom215/linkpulse/internal/middleware"
)

// Router wires handlers and middleware into a Chi mux.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		middleware:    authMiddleware,
		chiMiddleware: chiMW,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(router.notFound)
	r.MethodNotAllowed(router.methodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.Get("/health", router.handler.Health)
		r.Get("/diag/db", router.handler.DiagDB)

		// ========================
		// Authentication Endpoints
		// ========================
		r.Route("/auth", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAuth())

			r.Post("/signup", router.handler.Signup)
			r.Post("/login", router.handler.Login)
		})

		// ========================
		// Owner Link Endpoints
		// ========================
		r.Route("/urls", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit("urls"))
			r.Use(router.middleware.Authenticate)
			r.Use(middleware.Compression)

			r.With(router.chiMiddleware.RateLimitCreate()).Post("/create", router.handler.CreateLink)
			r.Get("/", router.handler.ListLinks)
			r.Get("/{id}/analytics", router.handler.LinkAnalytics)
			r.Delete("/{id}", router.handler.DeleteLink)
		})

		// ========================
		// Admin Endpoints
		// ========================
		r.Route("/admin", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit("admin"))
			r.Use(router.middleware.Authenticate)
			r.Use(router.middleware.RequireAdmin)
			r.Use(middleware.Compression)

			r.Get("/stats", router.handler.AdminStats)
			r.Get("/users", router.handler.AdminUsers)
			r.Patch("/users/{id}/ban", router.handler.AdminBanUser)
			r.Get("/urls", router.handler.AdminURLs)
			r.Get("/urls/{id}/analytics", router.handler.AdminURLAnalytics)
			r.Delete("/urls/{id}", router.handler.AdminDeleteURL)
			r.Get("/clicks", router.handler.AdminClicks)
			r.Get("/banned-ips", router.handler.AdminBannedIPs)
			r.Post("/banned-ips", router.handler.AdminBanIP)
			r.Delete("/banned-ips/{ip}", router.handler.AdminUnbanIP)
		})
	})

	// ========================
	// Public Redirect
	// ========================
	r.Get("/{shortCode}", router.handler.Redirect)

	return r
}

func (router *Router) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found")
}

func (router *Router) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
}
