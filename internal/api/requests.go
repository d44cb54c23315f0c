// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package api provides HTTP request and response structs. Request
// structs carry go-playground/validator tags and are validated before
// any engine call; validation failures surface as bad_request with
// field-level details.
//
// Example usage:
//
//	var req StartTestRequest
//	if !decodeBody(w, r, &req) {
//	    return
//	}
//	req.applyDefaults()
package api

import (
	"time"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/cat"
	"github.com/dwkang/lexicat/internal/learn"
	"github.com/dwkang/lexicat/internal/report"
)

// StartTestRequest is the body of POST /test/start. Every field is
// optional; defaults describe the median middle-school test taker.
type StartTestRequest struct {
	UserID         string `json:"user_id,omitempty" validate:"omitempty,max=64"`
	Nickname       string `json:"nickname,omitempty" validate:"omitempty,max=50"`
	Grade          string `json:"grade,omitempty" validate:"omitempty,max=20"`
	SelfAssess     string `json:"self_assess,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	ExamExperience string `json:"exam_experience,omitempty" validate:"omitempty,oneof=none 내신 수능 TOEIC TOEFL"`

	// QuestionType 0 lets the selector mix formats; 1..6 pins one.
	QuestionType int `json:"question_type" validate:"min=0,max=6"`
}

// applyDefaults fills the blanks the same way the intake form does.
func (req *StartTestRequest) applyDefaults() {
	if req.Grade == "" {
		req.Grade = "중2"
	}
	if req.SelfAssess == "" {
		req.SelfAssess = "intermediate"
	}
	if req.ExamExperience == "" {
		req.ExamExperience = "none"
	}
}

// profile converts the request into the engine's learner profile.
func (req *StartTestRequest) profile() cat.Profile {
	return cat.Profile{
		Nickname:       req.Nickname,
		Grade:          req.Grade,
		SelfAssess:     req.SelfAssess,
		ExamExperience: req.ExamExperience,
		QuestionType:   bank.QuestionType(req.QuestionType),
	}
}

// RespondRequest is the body of POST /test/{id}/respond. ItemID must
// reference the last issued item; anything else is rejected.
type RespondRequest struct {
	ItemID         int  `json:"item_id" validate:"min=0"`
	IsCorrect      bool `json:"is_correct"`
	IsDontKnow     bool `json:"is_dont_know"`
	ResponseTimeMs int  `json:"response_time_ms" validate:"min=0,max=3600000"`
}

// StartGoalRequest is the body of POST /learn/goal/start.
type StartGoalRequest struct {
	UserID          string `json:"user_id,omitempty" validate:"omitempty,max=64"`
	Nickname        string `json:"nickname,omitempty" validate:"omitempty,max=50"`
	GoalID          string `json:"goal_id" validate:"required,max=50"`
	GoalName        string `json:"goal_name,omitempty" validate:"omitempty,max=100"`
	TargetWordCount int    `json:"target_word_count" validate:"min=0,max=10000"`
}

// SubmitGoalRequest is the body of POST /learn/goal/{id}/submit.
// SelfRating follows SM-2: 0 forgot, 1 hard, 2 good, 3 easy.
type SubmitGoalRequest struct {
	Word         string `json:"word" validate:"required,min=1,max=100"`
	QuestionType int    `json:"question_type" validate:"min=0,max=6"`
	SelfRating   int    `json:"self_rating" validate:"min=0,max=3"`
	IsCorrect    bool   `json:"is_correct"`
}

// MatrixQuery holds the validated query parameters of
// GET /learn/{id}/matrix.
type MatrixQuery struct {
	SampleSize int `validate:"omitempty,min=10,max=2000"`
}

// StartTestResponse is the payload of POST /test/start.
type StartTestResponse struct {
	SessionID    string         `json:"session_id"`
	UserID       string         `json:"user_id"`
	InitialTheta float64        `json:"initial_theta"`
	FirstItem    *bank.Rendered `json:"first_item"`
	Progress     cat.Progress   `json:"progress"`
}

// RespondResponse is the payload of POST /test/{id}/respond. NextItem
// and Results are mutually exclusive: Results appears only once the
// session terminated.
type RespondResponse struct {
	IsComplete bool           `json:"is_complete"`
	Progress   cat.Progress   `json:"progress"`
	NextItem   *bank.Rendered `json:"next_item,omitempty"`
	Results    *report.Report `json:"results,omitempty"`
}

// HistoryEntry is one prior session in GET /user/{id}/history.
// Pointer fields are null for sessions that never terminated.
type HistoryEntry struct {
	SessionID         string     `json:"session_id"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	FinalTheta        *float64   `json:"final_theta,omitempty"`
	CEFRLevel         string     `json:"cefr_level,omitempty"`
	CurriculumLevel   string     `json:"curriculum_level,omitempty"`
	VocabSizeEstimate *int       `json:"vocab_size_estimate,omitempty"`
	TotalItems        int        `json:"total_items"`
	Accuracy          float64    `json:"accuracy"`
}

// HistoryResponse is the payload of GET /user/{id}/history. Sessions
// are ordered oldest first; Trend summarizes ability movement across
// completed sessions.
type HistoryResponse struct {
	UserID        string               `json:"user_id"`
	Nickname      string               `json:"nickname,omitempty"`
	TotalSessions int                  `json:"total_sessions"`
	Sessions      []HistoryEntry       `json:"sessions"`
	Trend         *report.Longitudinal `json:"trend,omitempty"`
}

// StartGoalResponse is the payload of POST /learn/goal/start.
type StartGoalResponse struct {
	SessionID       string             `json:"session_id"`
	UserID          string             `json:"user_id"`
	GoalID          string             `json:"goal_id"`
	GoalName        string             `json:"goal_name"`
	TargetWordCount int                `json:"target_word_count"`
	FirstCard       *learn.Card        `json:"first_card"`
	Progress        learn.GoalProgress `json:"progress"`
}

// SubmitGoalResponse is the payload of POST /learn/goal/{id}/submit.
// NextCard is null once the goal pool is mastered.
type SubmitGoalResponse struct {
	Word            string             `json:"word"`
	NewlyMastered   bool               `json:"newly_mastered"`
	IsComplete      bool               `json:"is_complete"`
	NextCard        *learn.Card        `json:"next_card,omitempty"`
	SessionProgress learn.GoalProgress `json:"session_progress"`
}

// CleanupResponse is the payload of POST /admin/cleanup.
type CleanupResponse struct {
	ExpiredSessions int   `json:"expired_sessions"`
	PurgedRows      int64 `json:"purged_rows"`
}
