// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package api

import (
	"net/http"

	"github.com/dwkang/lexicat/internal/bank"
)

// StudyPlan returns the post-test study plan for a completed test.
//
// @Summary Get the study plan derived from a completed test
// @Description Returns prioritized weak-topic drills, frontier words just above the learner's level, and review words just below it. Requires a terminated test session.
// @Tags Learning
// @Accept json
// @Produce json
// @Param id path string true "Test session ID"
// @Success 200 {object} APIResponse{data=report.StudyPlan} "Study plan"
// @Failure 400 {object} APIResponse "Test not completed yet"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /learn/{id}/plan [get]
func (h *Handler) StudyPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	plan, err := h.sessions.StudyPlan(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteSuccess(w, r, plan)
}

// Matrix returns the predicted knowledge matrix for a completed test.
//
// @Summary Get the predicted knowledge matrix
// @Description Samples the bank around the learner's estimated ability and classifies each sampled word as known, uncertain, or unknown with its predicted probability. Requires a terminated test session.
// @Tags Learning
// @Accept json
// @Produce json
// @Param id path string true "Test session ID"
// @Param sample_size query int false "Number of words to sample (10-2000)" default(150)
// @Success 200 {object} APIResponse{data=report.Matrix} "Knowledge matrix"
// @Failure 400 {object} APIResponse "Test not completed yet"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /learn/{id}/matrix [get]
func (h *Handler) Matrix(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	q := MatrixQuery{SampleSize: getIntParam(r, "sample_size", 150)}
	if !validateInto(w, r, &q) {
		return
	}

	m, err := h.sessions.Matrix(r.Context(), id, q.SampleSize)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteSuccess(w, r, m)
}

// GoalStart opens a goal-based learning session.
//
// @Summary Start a goal learning session
// @Description Creates a spaced-repetition session over the selected goal's word pool and returns the first card. Unknown goal IDs fall back to the default goal parameters.
// @Tags Learning
// @Accept json
// @Produce json
// @Param request body StartGoalRequest true "Goal selection"
// @Success 201 {object} APIResponse{data=StartGoalResponse} "Session created"
// @Failure 400 {object} APIResponse "Invalid request body"
// @Router /learn/goal/start [post]
func (h *Handler) GoalStart(w http.ResponseWriter, r *http.Request) {
	var req StartGoalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s, first, err := h.sessions.StartGoal(r.Context(), req.UserID, req.Nickname, req.GoalID, req.GoalName, req.TargetWordCount)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	NewResponseWriter(w, r).Created(StartGoalResponse{
		SessionID:       s.ID,
		UserID:          s.UserID,
		GoalID:          s.GoalID,
		GoalName:        s.GoalName,
		TargetWordCount: s.TargetWords,
		FirstCard:       first,
		Progress:        s.Progress(),
	})
}

// GoalSubmit records a self-rated review for a goal word.
//
// @Summary Submit a card review
// @Description Applies the SM-2 rating to the word's review schedule, persists the updated state, and returns the next due card. Completing the last unmastered word marks the session complete.
// @Tags Learning
// @Accept json
// @Produce json
// @Param id path string true "Goal session ID"
// @Param request body SubmitGoalRequest true "Review rating"
// @Success 200 {object} APIResponse{data=SubmitGoalResponse} "Review recorded"
// @Failure 400 {object} APIResponse "Word is not part of this goal"
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 410 {object} APIResponse "Session expired"
// @Router /learn/goal/{id}/submit [post]
func (h *Handler) GoalSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req SubmitGoalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.sessions.SubmitGoal(r.Context(), id, req.Word, bank.QuestionType(req.QuestionType), req.SelfRating, req.IsCorrect)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteSuccess(w, r, SubmitGoalResponse{
		Word:            res.Word.Word,
		NewlyMastered:   res.NewlyMastered,
		IsComplete:      res.Complete,
		NextCard:        res.NextCard,
		SessionProgress: res.Progress,
	})
}

// GoalProgress reports aggregate progress for a goal session.
//
// @Summary Get goal session progress
// @Description Returns words studied, words mastered, total reviews, and completion percentage against the goal's target word count.
// @Tags Learning
// @Accept json
// @Produce json
// @Param id path string true "Goal session ID"
// @Success 200 {object} APIResponse{data=learn.GoalProgress} "Session progress"
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 410 {object} APIResponse "Session expired"
// @Router /learn/goal/{id}/progress [get]
func (h *Handler) GoalProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.sessions.GoalProgress(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteSuccess(w, r, p)
}
