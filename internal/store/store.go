// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package store is the persistence port: users, test sessions with
// their per-response trace, and goal-learning state, written through a
// single ordered writer. The DuckDB implementation retries transient
// failures with capped backoff and trips a circuit breaker when the
// write path stays broken, so callers can distinguish "persistence is
// down" from ordinary errors.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by reads when no row matches.
var ErrNotFound = errors.New("not found")

// ErrUnavailable is returned when a write failed after all retries or
// was rejected by an open circuit breaker. Handlers surface it as
// persistence_unavailable.
var ErrUnavailable = errors.New("persistence unavailable")

// User is one row of the users table.
type User struct {
	ID           string
	Nickname     string
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// TestSession is one row of the test_sessions table. The terminal
// columns are zero until the session is archived.
type TestSession struct {
	ID                string
	UserID            string
	StartedAt         time.Time
	LastActivityAt    time.Time
	CompletedAt       time.Time
	FinalTheta        float64
	FinalSE           float64
	TerminationReason string
	ProfileJSON       []byte
}

// Completed reports whether the session has been archived with a
// terminal estimate.
func (s TestSession) Completed() bool { return !s.CompletedAt.IsZero() }

// Response is one row of the responses table: a committed answer with
// the estimate snapshot taken after it. Rows are unique per
// (session_id, sequence_idx), which makes the append idempotent.
type Response struct {
	SessionID      string
	ItemID         int
	QuestionType   int
	IsCorrect      bool
	IsDontKnow     bool
	ResponseTimeMs int
	ThetaAfter     float64
	SEAfter        float64
	SequenceIdx    int
	AnsweredAt     time.Time
}

// GoalSession is one row of the goal_learning_sessions table.
type GoalSession struct {
	ID              string
	UserID          string
	GoalID          string
	GoalName        string
	TargetWordCount int
	WordsStudied    int
	WordsMastered   int
	TotalReviews    int
	StartedAt       time.Time
	LastActivityAt  time.Time
}

// LearnedWord is one row of the learned_words table. MasteredAt is zero
// until the word crosses the mastery rule.
type LearnedWord struct {
	SessionID    string
	Word         string
	ReviewCount  int
	CorrectCount int
	NextReviewAt time.Time
	EaseFactor   float64
	IntervalDays int
	IsMastered   bool
	MasteredAt   time.Time
	HistoryJSON  []byte
	DVKLevel     int
}

// SessionDigest is a TestSession joined with its response counts, the
// read model behind the per-user history endpoint.
type SessionDigest struct {
	ID                string
	StartedAt         time.Time
	CompletedAt       time.Time
	FinalTheta        float64
	FinalSE           float64
	TerminationReason string
	TotalItems        int
	TotalCorrect      int
}

// Completed reports whether the digested session reached a terminal
// estimate.
func (s SessionDigest) Completed() bool { return !s.CompletedAt.IsZero() }

// ItemObservation is one archived response folded down to what
// calibration needs: the learner's terminal ability estimate and
// whether the answer was correct.
type ItemObservation struct {
	Theta   float64
	Correct bool
}

// Stats is the aggregate snapshot behind the admin stats endpoint.
type Stats struct {
	TotalUsers        int     `json:"total_users"`
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	TotalResponses    int     `json:"total_responses"`
	GoalSessions      int     `json:"goal_sessions"`
	MasteredWords     int     `json:"mastered_words"`
	MeanTheta         float64 `json:"mean_theta"`
	MeanItemsPerTest  float64 `json:"mean_items_per_test"`
}

// Store is the persistence port. Writes are strictly ordered by a
// single writer; reads see committed rows only.
type Store interface {
	SaveUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (User, error)

	CreateTestSession(ctx context.Context, row TestSession) error
	AppendResponse(ctx context.Context, row Response) error
	ArchiveTestSession(ctx context.Context, row TestSession) error
	GetTestSession(ctx context.Context, id string) (TestSession, error)
	ListResponses(ctx context.Context, sessionID string) ([]Response, error)
	UserSessionDigests(ctx context.Context, userID string) ([]SessionDigest, error)

	SaveGoalSession(ctx context.Context, row GoalSession) error
	SaveLearnedWord(ctx context.Context, w LearnedWord) error
	GetGoalSession(ctx context.Context, id string) (GoalSession, error)
	ListLearnedWords(ctx context.Context, sessionID string) ([]LearnedWord, error)
	ListUserLearnedWords(ctx context.Context, userID string) ([]LearnedWord, error)

	ItemObservations(ctx context.Context) (map[int][]ItemObservation, error)
	CompletedSessionCount(ctx context.Context) (int, error)
	Stats(ctx context.Context) (Stats, error)
	PurgeStaleSessions(ctx context.Context, before time.Time) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}
