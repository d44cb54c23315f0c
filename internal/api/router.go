// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package api provides HTTP routing using the Chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/dwkang/lexicat/internal/config"
	"github.com/dwkang/lexicat/internal/middleware"
)

// Router wires handlers to routes with the middleware stack.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	adminSecret   string
}

// NewRouter creates a router for the given handler set.
func NewRouter(handler *Handler, sec config.SecurityConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddlewareFromSecurity(sec),
		adminSecret:   sec.AdminSecret,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
// This allows our existing middleware to work with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// chiPathValue bridges Chi URL params to Go 1.22's r.PathValue so
// handlers stay router-agnostic.
func chiPathValue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		if rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if i < len(rctx.URLParams.Values) {
					r.SetPathValue(key, rctx.URLParams.Values[i])
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(chiMiddleware(middleware.RequestID)) // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)                // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)             // Recover from panics
	r.Use(router.chiMiddleware.CORS())         // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting so monitoring tools can poll freely
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/live", router.handler.HealthLive)
	})

	// ========================
	// Diagnostic Test Endpoints
	// ========================
	r.Route("/api/v1/test", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiPathValue) // Bridge Chi URL params to r.PathValue()

		r.Post("/start", router.handler.StartTest)
		// The respond loop gets its own budget; one request per item
		// keeps honest clients far below it
		r.With(router.chiMiddleware.RateLimitSubmit()).Post("/{id}/respond", router.handler.RespondTest)
		r.Get("/{id}/results", router.handler.TestResults)
	})

	// ========================
	// Learning Endpoints
	// ========================
	r.Route("/api/v1/learn", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiPathValue) // Bridge Chi URL params to r.PathValue()

		r.Get("/{id}/plan", router.handler.StudyPlan)
		r.Get("/{id}/matrix", router.handler.Matrix)

		r.Post("/goal/start", router.handler.GoalStart)
		r.With(router.chiMiddleware.RateLimitSubmit()).Post("/goal/{id}/submit", router.handler.GoalSubmit)
		r.Get("/goal/{id}/progress", router.handler.GoalProgress)
	})

	// ========================
	// User Endpoints
	// ========================
	r.Route("/api/v1/user", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiPathValue) // Bridge Chi URL params to r.PathValue()

		r.Get("/{id}/history", router.handler.UserHistory)
	})

	// ========================
	// Admin Endpoints
	// ========================
	// Token-guarded ops surface; strict rate limiting
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAdmin())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(RequireAdmin(router.adminSecret))

		r.Get("/stats", router.handler.AdminStats)
		r.Get("/exposure", router.handler.AdminExposure)
		r.Get("/exposure/expansion", router.handler.AdminExpansion)
		r.Get("/performance", router.handler.AdminPerformance)
		r.Get("/live", router.handler.Live)
		r.Post("/recalibrate", router.handler.AdminRecalibrate)
		r.Post("/cleanup", router.handler.AdminCleanup)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
