// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/calibrate"
	"github.com/dwkang/lexicat/internal/config"
	"github.com/dwkang/lexicat/internal/exposure"
	"github.com/dwkang/lexicat/internal/live"
	"github.com/dwkang/lexicat/internal/logging"
	"github.com/dwkang/lexicat/internal/middleware"
	"github.com/dwkang/lexicat/internal/session"
	"github.com/dwkang/lexicat/internal/store"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrader (this file)
//   - handlers_helpers.go: shared helper functions
//   - handlers_health.go: health and readiness endpoints
//   - handlers_diagnostic.go: adaptive test lifecycle endpoints
//   - handlers_learn.go: study plan, knowledge matrix, goal learning
//   - handlers_user.go: user history
//   - handlers_admin.go: ops endpoints and the live event feed
type Handler struct {
	sessions   *session.Manager
	bank       *bank.Handle
	store      store.Store
	exposure   *exposure.Controller
	calibrator *calibrate.Engine
	hub        *live.Hub
	config     *config.Config
	perfMon    *middleware.PerformanceMonitor
	startTime  time.Time
}

// NewHandler creates the API handler with all engine dependencies.
//
// The hub may be nil; the live feed endpoint then answers 503. The
// calibrator may be nil; recalibration then answers 503. Everything
// else is required.
func NewHandler(cfg *config.Config, sessions *session.Manager, h *bank.Handle, st store.Store, exp *exposure.Controller, cal *calibrate.Engine, hub *live.Hub) *Handler {
	return &Handler{
		sessions:   sessions,
		bank:       h,
		store:      st,
		exposure:   exp,
		calibrator: cal,
		hub:        hub,
		config:     cfg,
		perfMon:    middleware.NewPerformanceMonitor(1000),
		startTime:  time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow-client attacks.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browser WebSockets always send Origin; an empty value means a
	// non-browser client that must not bypass the CORS allowlist.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// Nil config allows by default (tests, development).
	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
