// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package api

import (
	"net/http"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/calibrate"
	"github.com/dwkang/lexicat/internal/live"
	"github.com/dwkang/lexicat/internal/logging"
	"github.com/dwkang/lexicat/internal/store"
)

// AdminStatsResponse aggregates store, bank, and live-session counters
// for the operator dashboard.
type AdminStatsResponse struct {
	Store       store.Stats `json:"store"`
	Bank        bank.Stats  `json:"bank"`
	ActiveTests int         `json:"active_tests"`
	ActiveGoals int         `json:"active_goals"`
	LiveClients int         `json:"live_clients"`
}

// AdminStats returns aggregate service statistics.
//
// @Summary Get aggregate service statistics
// @Description Returns persisted totals, item bank composition, and in-memory session counts.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=AdminStatsResponse} "Service statistics"
// @Failure 401 {object} APIResponse "Missing or invalid token"
// @Failure 503 {object} APIResponse "Persistence unavailable"
// @Router /admin/stats [get]
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	tests, goals := h.sessions.LiveCount()
	clients := 0
	if h.hub != nil {
		clients = h.hub.ClientCount()
	}

	WriteSuccess(w, r, AdminStatsResponse{
		Store:       stats,
		Bank:        h.bank.Current().Stats(),
		ActiveTests: tests,
		ActiveGoals: goals,
		LiveClients: clients,
	})
}

// AdminExposure returns the exposure balance report for the active bank.
//
// @Summary Get item exposure report
// @Description Classifies every item by its administration rate against the exposure ceiling and reports overexposed and underused counts.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=exposure.Report} "Exposure report"
// @Failure 401 {object} APIResponse "Missing or invalid token"
// @Router /admin/exposure [get]
func (h *Handler) AdminExposure(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.exposure.Analyze(h.bank.Current().Items()))
}

// AdminExpansion reports where the item pool is too thin.
//
// @Summary Get pool expansion recommendations
// @Description Identifies difficulty bands and topics whose exposure pressure indicates the pool needs more authoring, with concrete per-band deficits.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=exposure.ExpansionReport} "Expansion report"
// @Failure 401 {object} APIResponse "Missing or invalid token"
// @Router /admin/exposure/expansion [get]
func (h *Handler) AdminExpansion(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.exposure.ExpansionNeeds(h.bank.Current().Items()))
}

// AdminRecalibrate re-estimates item parameters from accumulated
// responses and publishes a new bank version when enough data exists.
//
// @Summary Run item recalibration
// @Description Re-estimates parameters for items with sufficient observations, flags anomalous drift instead of publishing it, and swaps in the new bank atomically. Returns the calibration summary with fit statistics.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=calibrate.Summary} "Calibration summary"
// @Failure 401 {object} APIResponse "Missing or invalid token"
// @Failure 503 {object} APIResponse "Persistence unavailable"
// @Router /admin/recalibrate [post]
func (h *Handler) AdminRecalibrate(w http.ResponseWriter, r *http.Request) {
	if h.calibrator == nil {
		NewResponseWriter(w, r).PersistenceUnavailable("Calibration not available")
		return
	}

	obs, err := h.store.ItemObservations(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	total, err := h.store.CompletedSessionCount(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	responses := make(map[int][]calibrate.Observation, len(obs))
	for id, os := range obs {
		converted := make([]calibrate.Observation, len(os))
		for i, o := range os {
			converted[i] = calibrate.Observation{Theta: o.Theta, Correct: o.Correct}
		}
		responses[id] = converted
	}

	sum, err := h.calibrator.Run(r.Context(), responses, total)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteSuccess(w, r, sum)
}

// AdminCleanup expires idle sessions and purges stale store rows.
//
// @Summary Run session cleanup
// @Description Sweeps in-memory sessions past their idle TTL and deletes uncompleted store rows older than the TTL. Normally the background sweeper does this; the endpoint forces a pass.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=CleanupResponse} "Cleanup counts"
// @Failure 401 {object} APIResponse "Missing or invalid token"
// @Router /admin/cleanup [post]
func (h *Handler) AdminCleanup(w http.ResponseWriter, r *http.Request) {
	expired, purged := h.sessions.SweepNow(r.Context())
	WriteSuccess(w, r, CleanupResponse{
		ExpiredSessions: expired,
		PurgedRows:      purged,
	})
}

// AdminPerformance returns per-endpoint latency statistics.
//
// @Summary Get API performance statistics
// @Description Returns rolling request counts, latency percentiles, and error rates per endpoint.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse "Endpoint statistics"
// @Failure 401 {object} APIResponse "Missing or invalid token"
// @Router /admin/performance [get]
func (h *Handler) AdminPerformance(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"endpoints": h.perfMon.GetStats(),
	})
}

// Live upgrades to a websocket and streams session lifecycle events.
//
// @Summary Subscribe to live session events
// @Description Upgrades to a websocket over which test and goal lifecycle events are pushed as they happen.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 101 "Switching protocols"
// @Failure 401 {object} APIResponse "Missing or invalid token"
// @Failure 503 {object} APIResponse "Live feed not available"
// @Router /admin/live [get]
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		NewResponseWriter(w, r).PersistenceUnavailable("Live feed not available")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error response.
		logging.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := live.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}
