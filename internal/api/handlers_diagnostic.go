// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package api

import (
	"net/http"

	"github.com/dwkang/lexicat/internal/logging"
)

// StartTest opens an adaptive test session and returns the first item.
//
// @Summary Start an adaptive vocabulary test
// @Description Creates a test session seeded from the learner profile and returns the first rendered item. Passing a known user_id links the session to that user's history; otherwise a new user is created.
// @Tags Diagnostic
// @Accept json
// @Produce json
// @Param request body StartTestRequest true "Learner profile"
// @Success 201 {object} APIResponse{data=StartTestResponse} "Session created"
// @Failure 400 {object} APIResponse "Invalid request body"
// @Failure 422 {object} APIResponse "No eligible item in pool"
// @Router /test/start [post]
func (h *Handler) StartTest(w http.ResponseWriter, r *http.Request) {
	var req StartTestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.applyDefaults()

	s, first, err := h.sessions.StartTest(r.Context(), req.UserID, req.profile())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	NewResponseWriter(w, r).Created(StartTestResponse{
		SessionID:    s.ID,
		UserID:       s.UserID,
		InitialTheta: s.InitialTheta(),
		FirstItem:    first,
		Progress:     s.Progress(),
	})
}

// RespondTest records a graded response and advances the session.
//
// @Summary Submit a response for the current item
// @Description Commits the response, updates the ability estimate, and returns either the next item or, once a stopping rule fires, the final results. Resubmitting an already answered item returns 409 with the committed record in details.
// @Tags Diagnostic
// @Accept json
// @Produce json
// @Param id path string true "Test session ID"
// @Param request body RespondRequest true "Graded response"
// @Success 200 {object} APIResponse{data=RespondResponse} "Response recorded"
// @Failure 400 {object} APIResponse "Response does not reference the current item"
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 409 {object} APIResponse "Response already recorded for this item"
// @Failure 410 {object} APIResponse "Session expired"
// @Router /test/{id}/respond [post]
func (h *Handler) RespondTest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req RespondRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.sessions.SubmitTest(r.Context(), id, req.ItemID, req.IsCorrect, req.IsDontKnow, req.ResponseTimeMs)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := RespondResponse{
		IsComplete: res.Terminated,
		Progress:   res.Progress,
		NextItem:   res.Next,
	}
	if res.Terminated {
		// The response is already committed; a report failure here
		// must not fail the request or the client would retry into
		// a conflict. The results endpoint remains available.
		rep, rerr := h.sessions.Results(r.Context(), id)
		if rerr != nil {
			logging.Warn().Err(rerr).Str("session_id", id).Msg("report build after termination failed")
		} else {
			resp.Results = rep
		}
	}

	WriteSuccess(w, r, resp)
}

// TestResults returns the full diagnostic report for a finished test.
//
// @Summary Get final test results
// @Description Returns the full diagnostic report: ability estimate, CEFR level, vocabulary size, topic strengths and weaknesses, and recommendations. Only available once the session has terminated.
// @Tags Diagnostic
// @Accept json
// @Produce json
// @Param id path string true "Test session ID"
// @Success 200 {object} APIResponse{data=report.Report} "Diagnostic report"
// @Failure 400 {object} APIResponse "Test not completed yet"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /test/{id}/results [get]
func (h *Handler) TestResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rep, err := h.sessions.Results(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteSuccess(w, r, rep)
}
