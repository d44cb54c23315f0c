// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

/*
Package main is the entry point for the Lexicat server application.

Lexicat is an adaptive vocabulary diagnostic service for Korean EFL
learners. A computerized adaptive test built on item response theory
estimates each learner's ability in 15-40 items, reports CEFR and
Korean curriculum levels with a vocabulary size estimate, and feeds an
SM-2 spaced repetition scheduler for goal-based study.

# Application Architecture

The server implements a layered architecture with suture v4 process
supervision:

	Root ("lexicat")
	├── Data ("data-layer")
	│   └── exposure-flush     (Badger-backed exposure counters)
	├── Session ("session-layer")
	│   ├── session-sweeper    (test session TTL expiry)
	│   └── live-hub           (websocket event fan-out)
	└── API ("api-layer")
	    └── http-server        (Chi router, port 8622)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Store: DuckDB archive (sessions, responses, goals, learned words)
 4. Item bank: TSV vocabulary compiled to immutable in-memory bank
 5. Exposure controller: per-item exposure rate accounting
 6. Engines: CAT, goal learning, Bayesian calibration
 7. Session manager and live hub
 8. Supervisor tree: suture v4 process supervision
 9. HTTP server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest
priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8622               # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Data
	VOCAB_PATH=/data/vocabulary.tsv
	DUCKDB_PATH=/data/lexicat.duckdb
	EXPOSURE_STORE_PATH=/data/exposure

	# Security
	ADMIN_SECRET=<32+ chars>     # Enables JWT auth on /admin
	CORS_ORIGINS=https://app.example.com
	RATE_LIMIT_REQUESTS=100

	# Adaptive engine
	CAT_MIN_ITEMS=15
	CAT_MAX_ITEMS=40
	CAT_SE_THRESHOLD=0.30
	SESSION_TTL=2h

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Disconnects websocket clients
 3. Waits for in-flight requests (drain timeout, default 10s)
 4. Flushes exposure counters to Badger
 5. Closes the DuckDB store last
 6. Reports any services that failed to stop

# Usage Examples

Development:

	export VOCAB_PATH=./testdata/vocabulary.tsv
	export DUCKDB_PATH=./lexicat.duckdb
	export LOG_FORMAT=console
	go run ./cmd/server

Production:

	export ADMIN_SECRET=$(openssl rand -base64 32)
	export CORS_ORIGINS=https://app.example.com
	./lexicat

# API Documentation

Swagger documentation is available at /swagger/index.html when the
server is running. Endpoints are organized into categories:

  - Health: liveness, readiness, component status
  - Diagnostic: adaptive test start/respond/results
  - Learning: study plans, knowledge matrix, goal sessions
  - User: cross-session history and ability trends
  - Admin: statistics, exposure reports, recalibration, cleanup, live feed

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/cat: Adaptive testing engine
  - internal/learn: SM-2 goal learning
*/
package main
