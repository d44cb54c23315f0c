// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package api

import (
	"net/http"
	"time"
)

// HealthStatus summarizes process health for the health endpoint.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	StoreConnected bool    `json:"store_connected"`
	BankVersion    int     `json:"bank_version"`
	BankItems      int     `json:"bank_items"`
	ActiveTests    int     `json:"active_tests"`
	ActiveGoals    int     `json:"active_goals"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns health status including store connectivity, item bank version, live session counts, and uptime
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	// Check store connectivity (nil means not connected)
	storeConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	status := "healthy"
	if !storeConnected {
		status = "degraded"
	}

	b := h.bank.Current()
	tests, goals := h.sessions.LiveCount()

	WriteSuccess(w, r, HealthStatus{
		Status:         status,
		Version:        "1.0.0",
		StoreConnected: storeConnected,
		BankVersion:    b.Version(),
		BankItems:      b.Size(),
		ActiveTests:    tests,
		ActiveGoals:    goals,
		UptimeSeconds:  time.Since(h.startTime).Seconds(),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies. Used for Kubernetes liveness probes.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only if the store is reachable and an item bank is loaded. Returns 503 if not ready.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse "Service is ready"
// @Failure 503 {object} APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	storeConnected := h.store != nil && h.store.Ping(r.Context()) == nil
	bankLoaded := h.bank.Current().Size() > 0
	ready := storeConnected && bankLoaded

	data := map[string]interface{}{
		"store_connected": storeConnected,
		"bank_loaded":     bankLoaded,
		"ready_to_serve":  ready,
		"uptime_seconds":  time.Since(h.startTime).Seconds(),
	}

	rw := NewResponseWriter(w, r)
	if !ready {
		rw.ErrorWithDetails(KindPersistenceUnavailable, "Service is not ready", data)
		return
	}
	rw.Success(data)
}
