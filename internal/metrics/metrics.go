// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the diagnostic service:
// - API endpoint latency and throughput
// - Adaptive test lifecycle (starts, completions, length, ability spread)
// - Goal-learning reviews and mastery
// - Item exposure gate behavior
// - Calibration runs
// - Live event stream connections

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Adaptive Test Metrics
	TestSessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "test_sessions_started_total",
			Help: "Total number of adaptive test sessions started",
		},
	)

	TestSessionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "test_sessions_completed_total",
			Help: "Total number of adaptive test sessions reaching a terminal state",
		},
		[]string{"reason"}, // max_items, se_threshold, convergence, pool_exhausted, expired, corrupted
	)

	ActiveTestSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_test_sessions",
			Help: "Current number of live adaptive test sessions",
		},
	)

	ItemsAdministered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_administered_total",
			Help: "Total number of items administered, by question type",
		},
		[]string{"question_type"},
	)

	TestLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "test_length_items",
			Help:    "Number of items administered per completed test",
			Buckets: []float64{5, 8, 11, 14, 17, 20, 25, 30},
		},
	)

	FinalTheta = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "test_final_theta",
			Help:    "Terminal ability estimates of completed tests",
			Buckets: []float64{-3, -2, -1, -0.5, 0, 0.5, 1, 2, 3},
		},
	)

	// Goal Learning Metrics
	GoalSessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goal_sessions_started_total",
			Help: "Total number of goal learning sessions started",
		},
	)

	GoalSessionsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goal_sessions_completed_total",
			Help: "Total number of goal learning sessions that reached their target",
		},
	)

	ActiveGoalSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_goal_sessions",
			Help: "Current number of live goal learning sessions",
		},
	)

	LearningReviews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learning_reviews_total",
			Help: "Total number of spaced-repetition reviews, by self rating",
		},
		[]string{"rating"}, // 0 (forgot) through 3 (easy)
	)

	WordsMastered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "words_mastered_total",
			Help: "Total number of words crossing the mastery rule",
		},
	)

	// Exposure Control Metrics
	ExposureGateRelaxations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "exposure_gate_relaxations_total",
			Help: "Total number of selections where the exposure gate had to relax its rate cap",
		},
	)

	// Calibration Metrics
	CalibrationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calibration_runs_total",
			Help: "Total number of calibration runs",
		},
		[]string{"outcome"}, // published, dry_run, failed
	)

	CalibrationItemsAdjusted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "calibration_items_adjusted_total",
			Help: "Total number of item parameter updates accepted by calibration",
		},
	)

	// Live Event Stream Metrics
	LiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_connections",
			Help: "Current number of connected live event stream clients",
		},
	)

	LiveEventsBroadcast = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "live_events_broadcast_total",
			Help: "Total number of events broadcast to live stream clients",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records one finished API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTestStarted records a new adaptive test session.
func RecordTestStarted() {
	TestSessionsStarted.Inc()
}

// RecordTestCompleted records a terminal test session with its length
// and final ability estimate.
func RecordTestCompleted(reason string, items int, theta float64) {
	TestSessionsCompleted.WithLabelValues(reason).Inc()
	TestLength.Observe(float64(items))
	FinalTheta.Observe(theta)
}

// RecordItemAdministered records one committed item administration.
func RecordItemAdministered(questionType string) {
	ItemsAdministered.WithLabelValues(questionType).Inc()
}

// SetActiveSessions refreshes the live session gauges.
func SetActiveSessions(tests, goals int) {
	ActiveTestSessions.Set(float64(tests))
	ActiveGoalSessions.Set(float64(goals))
}

// RecordGoalStarted records a new goal learning session.
func RecordGoalStarted() {
	GoalSessionsStarted.Inc()
}

// RecordGoalCompleted records a goal session reaching its target.
func RecordGoalCompleted() {
	GoalSessionsCompleted.Inc()
}

// RecordLearningReview records one spaced-repetition review and, when
// the review crossed the mastery rule, the mastery itself.
func RecordLearningReview(rating int, mastered bool) {
	LearningReviews.WithLabelValues(strconv.Itoa(rating)).Inc()
	if mastered {
		WordsMastered.Inc()
	}
}

// RecordExposureRelaxation records a selection that only succeeded
// after the exposure gate relaxed its rate cap.
func RecordExposureRelaxation() {
	ExposureGateRelaxations.Inc()
}

// RecordCalibrationRun records one calibration run and the number of
// item updates it accepted.
func RecordCalibrationRun(outcome string, adjusted int) {
	CalibrationRuns.WithLabelValues(outcome).Inc()
	CalibrationItemsAdjusted.Add(float64(adjusted))
}

// SetLiveConnections refreshes the live client gauge.
func SetLiveConnections(n int) {
	LiveConnections.Set(float64(n))
}

// RecordLiveBroadcast records one event fanned out to live clients.
func RecordLiveBroadcast() {
	LiveEventsBroadcast.Inc()
}
