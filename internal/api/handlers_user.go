// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package api

import (
	"net/http"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/report"
	"github.com/dwkang/lexicat/internal/store"
)

// UserHistory returns a user's past test sessions with a longitudinal
// trend over the completed ones.
//
// @Summary Get a user's test history
// @Description Returns the user's sessions oldest first. Completed sessions carry the final estimate, CEFR level, and vocabulary size; incomplete ones carry null estimate fields. The trend block compares completed sessions over time.
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} APIResponse{data=HistoryResponse} "Session history"
// @Failure 404 {object} APIResponse "User not found"
// @Router /user/{id}/history [get]
func (h *Handler) UserHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, digests, err := h.sessions.History(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	b := h.bank.Current()
	entries := make([]HistoryEntry, 0, len(digests))
	var completed []report.SessionSummary
	for _, d := range digests {
		entries = append(entries, historyEntry(b, d))
		if !d.Completed() {
			continue
		}
		completed = append(completed, report.SessionSummary{
			SessionID:  d.ID,
			StartedAt:  d.StartedAt,
			Theta:      d.FinalTheta,
			SE:         d.FinalSE,
			CEFRLevel:  report.CEFRLevel(d.FinalTheta),
			VocabSize:  report.VocabSize(b, d.FinalTheta),
			TotalItems: d.TotalItems,
			Accuracy:   accuracyOf(d),
		})
	}

	resp := HistoryResponse{
		UserID:        u.ID,
		Nickname:      u.Nickname,
		TotalSessions: len(entries),
		Sessions:      entries,
	}
	if len(completed) > 0 {
		resp.Trend = report.BuildLongitudinal(completed)
	}

	WriteSuccess(w, r, resp)
}

// historyEntry converts a stored digest into its wire form. Estimate
// fields stay nil for sessions that never reached a terminal state.
func historyEntry(b *bank.Bank, d store.SessionDigest) HistoryEntry {
	e := HistoryEntry{
		SessionID:  d.ID,
		StartedAt:  d.StartedAt,
		TotalItems: d.TotalItems,
		Accuracy:   accuracyOf(d),
	}
	if !d.Completed() {
		return e
	}
	completedAt := d.CompletedAt
	theta := d.FinalTheta
	size := report.VocabSize(b, theta)
	e.CompletedAt = &completedAt
	e.FinalTheta = &theta
	e.CEFRLevel = report.CEFRLevel(theta)
	e.CurriculumLevel = report.CurriculumLevel(theta)
	e.VocabSizeEstimate = &size
	return e
}

func accuracyOf(d store.SessionDigest) float64 {
	if d.TotalItems == 0 {
		return 0
	}
	return float64(d.TotalCorrect) / float64(d.TotalItems)
}
