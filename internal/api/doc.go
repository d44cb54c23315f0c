// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

/*
Package api provides the HTTP REST API layer for Lexicat.

It exposes the adaptive test lifecycle, the post-test learning surface,
and a token-guarded ops surface, and serves as the only interface
between clients and the diagnostic engine.

Key Components:

  - Router: Chi route configuration and middleware stack integration
  - Handler: request handlers for every endpoint
  - Response formatting: one standardized JSON envelope for all endpoints
  - Error handling: machine-readable error kinds mapped to HTTP status codes
  - Admin guard: HMAC-signed bearer tokens for the /admin surface
  - Rate limiting: per-group IP rate limits via go-chi/httprate
  - CORS: cross-origin support for browser clients

API Categories:

1. Health Endpoints (/api/v1/health):
  - Liveness and readiness probes plus a summary health report

2. Diagnostic Test Endpoints (/api/v1/test):
  - Session start, adaptive item loop, and final results

3. Learning Endpoints (/api/v1/learn):
  - Study plan and knowledge matrix derived from a completed test
  - Goal-based spaced-repetition sessions

4. User Endpoints (/api/v1/user):
  - Per-user session history with longitudinal trend

5. Admin Endpoints (/admin):
  - Aggregate statistics, exposure reports, recalibration, cleanup
  - Live session event feed over websocket

Usage Example:

	import (
	    "github.com/dwkang/lexicat/internal/api"
	    "github.com/dwkang/lexicat/internal/session"
	)

	handler := api.NewHandler(cfg, sessions, bankHandle, st, exp, cal, hub)
	router := api.NewRouter(handler, cfg.Security)
	server := api.NewServer(cfg.Server, router.SetupChi())
	tree.AddAPIService(server)

Every response shares the envelope defined in response.go; every error
carries one of the kinds defined in errors.go. Handlers translate
domain sentinels centrally through writeDomainError so the mapping
stays in one place.
*/
package api
