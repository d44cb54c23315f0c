// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for request ID tracking,
Prometheus metrics, gzip compression, and latency monitoring. Cross-cutting
policy middleware (CORS, rate limiting, security headers) lives in the api
package next to the router that mounts it.

Key Components:

  - Request ID: UUID-based request tracking threaded through the logging context
  - Prometheus Metrics: request/response instrumentation keyed by route pattern
  - Compression: gzip for JSON payloads such as reports and knowledge matrices
  - Performance Monitor: rolling-window latency percentiles for the admin surface

Usage Example - Request ID:

	mux.HandleFunc("/api/v1/test/start",
	    middleware.RequestID(handler),
	)

	func handler(w http.ResponseWriter, r *http.Request) {
	    logging.Ctx(r.Context()).Info().Msg("request id is attached automatically")
	}

Usage Example - Performance Monitoring:

	perfMon := middleware.NewPerformanceMonitor(1000)
	mux.Handle("/api/v1/learn/start", perfMon.Middleware(handler))

	stats := perfMon.GetStats() // per-endpoint p50/p95/p99

Thread Safety:

All middleware components are safe for concurrent use. The performance
monitor guards its sliding window with a RWMutex; metrics use the
prometheus client's atomic collectors; request IDs ride the immutable
request context.
*/
package middleware
