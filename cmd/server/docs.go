// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package main provides the Lexicat HTTP server
//
// Lexicat measures Korean EFL learners' English vocabulary with an
// adaptive diagnostic built on item response theory.
//
// @title Lexicat API
// @version 1.0
// @description Adaptive vocabulary diagnostic service for Korean EFL learners.
// @description
// @description ## Features
// @description
// @description - **Adaptive Testing**: EAP/MLE ability estimation with maximum-information item selection
// @description - **Per-Learner Diagnostics**: CEFR level, curriculum level, and vocabulary size estimates
// @description - **Goal Learning**: SM-2 spaced repetition over curated word goals
// @description - **Knowledge Matrix**: known/unknown projection across the whole bank
// @description - **Live Feed**: WebSocket stream of session lifecycle events
// @description
// @description ## Authentication
// @description
// @description Learner-facing endpoints are anonymous. The /admin group requires a JWT
// @description bearer token when ADMIN_SECRET is configured; pass it in the
// @description `Authorization: Bearer <token>` header (a `token` cookie also works for
// @description browser websocket connects).
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address. The answer
// @description submission endpoints allow 120/min; /admin allows 30/min.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {
// @description     "code": "error_kind",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "meta": {
// @description     "timestamp": "2026-08-26T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/dwkang/lexicat/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8622
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT bearer token for the /admin group. Format: "Bearer {token}".
//
// @tag.name Core
// @tag.description Liveness, readiness, and component status probes
//
// @tag.name Diagnostic
// @tag.description Adaptive vocabulary test lifecycle: start, respond, results
//
// @tag.name Learning
// @tag.description Study plans, knowledge matrix, and SM-2 goal sessions
//
// @tag.name User
// @tag.description Cross-session learner history and trends
//
// @tag.name Admin
// @tag.description Operational endpoints: statistics, exposure, calibration, cleanup, live feed
package main
