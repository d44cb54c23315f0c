// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered through promauto at package init and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8622/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)

Adaptive Test Metrics:
  - test_sessions_started_total: Sessions started (counter)
  - test_sessions_completed_total: Terminal sessions (counter)
    Labels: reason (max_items, se_threshold, convergence, pool_exhausted, expired, corrupted)
  - active_test_sessions: Live sessions (gauge)
  - items_administered_total: Committed administrations (counter)
    Labels: question_type
  - test_length_items: Items per completed test (histogram)
  - test_final_theta: Terminal ability estimates (histogram)

Goal Learning Metrics:
  - goal_sessions_started_total / goal_sessions_completed_total (counters)
  - active_goal_sessions: Live goal sessions (gauge)
  - learning_reviews_total: Reviews by self rating (counter)
    Labels: rating (0 through 3)
  - words_mastered_total: Words crossing the mastery rule (counter)

Exposure and Calibration:
  - exposure_gate_relaxations_total: Selections that had to relax the rate cap (counter)
  - calibration_runs_total: Calibration runs (counter)
    Labels: outcome (published, dry_run, failed)
  - calibration_items_adjusted_total: Accepted parameter updates (counter)

Live Event Stream:
  - live_connections: Connected websocket clients (gauge)
  - live_events_broadcast_total: Broadcast events (counter)

System:
  - app_info: Version and Go runtime (gauge)
    Labels: version, go_version
  - app_uptime_seconds: Process uptime (gauge)

# Usage Example

Recording from a handler or engine:

	metrics.RecordTestStarted()
	metrics.RecordItemAdministered("word_to_meaning")
	metrics.RecordTestCompleted("se_threshold", 22, -0.41)

The HTTP middleware records api_* series automatically; see
internal/middleware.PrometheusMetrics.

# Cardinality

Label values are drawn from small closed sets (HTTP method, route
pattern, termination reason, question type, rating). Never label by
user, session, or item id.
*/
package metrics
