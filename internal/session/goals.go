// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package session

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/learn"
	"github.com/dwkang/lexicat/internal/metrics"
	"github.com/dwkang/lexicat/internal/store"
)

// StartGoal creates a goal-learning session, persists its identity row,
// and issues the first card.
func (m *Manager) StartGoal(ctx context.Context, userID, nickname, goalID, goalName string, targetWords int) (*learn.GoalSession, *learn.Card, error) {
	userID, err := m.ensureUser(ctx, userID, nickname)
	if err != nil {
		return nil, nil, err
	}

	s := m.learn.NewSession(uuid.NewString(), userID, goalID, goalName, targetWords)
	if err := m.store.SaveGoalSession(ctx, goalRow(s)); err != nil {
		return nil, nil, err
	}

	first, err := m.learn.NextCard(s)
	if err != nil && !errors.Is(err, learn.ErrGoalComplete) {
		return nil, nil, err
	}

	m.goals.put(s.ID, s)
	m.refreshGauges()
	metrics.RecordGoalStarted()
	if m.live != nil {
		m.live.BroadcastGoalStarted(s.ID, userID, s.GoalID, s.TargetWords)
	}
	m.logger.Info().
		Str("session_id", s.ID).
		Str("user_id", userID).
		Str("goal_id", s.GoalID).
		Int("target_words", s.TargetWords).
		Msg("goal session created")
	return s, first, nil
}

// GetGoal returns a live goal session and refreshes its activity clock.
// Idle sessions past the TTL are flushed and evicted; their state lives
// on in the store.
func (m *Manager) GetGoal(ctx context.Context, id string) (*learn.GoalSession, error) {
	s, ok := m.goals.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if time.Since(s.LastActivity()) > m.ttl {
		m.dropGoal(ctx, s)
		return nil, ErrExpired
	}
	s.Touch()
	return s, nil
}

// SubmitGoal records one card rating and writes the touched word plus
// the session counters through to the store.
func (m *Manager) SubmitGoal(ctx context.Context, id, word string, qt bank.QuestionType, rating int, isCorrect bool) (*learn.SubmitResult, error) {
	s, err := m.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	lock := m.commitLock(id)
	lock.Lock()
	defer lock.Unlock()

	res, err := m.learn.Submit(s, word, qt, rating, isCorrect)
	if err != nil {
		return nil, err
	}
	metrics.RecordLearningReview(rating, res.NewlyMastered)
	if res.Complete {
		metrics.RecordGoalCompleted()
		if m.live != nil {
			m.live.BroadcastGoalCompleted(s.ID, s.GoalID, res.Progress.WordsMastered)
		}
	}

	// Learned-word rows are whole-state upserts, so a lost write is
	// repaired by the next successful one. Unlike the test trace there
	// is no ordering to protect, so failures only log.
	if err := m.store.SaveLearnedWord(ctx, learnedWordRow(id, res.Word)); err != nil {
		m.logger.Warn().Err(err).Str("session_id", id).Str("word", word).Msg("learned word write-through failed")
	}
	if err := m.store.SaveGoalSession(ctx, goalRow(s)); err != nil {
		m.logger.Warn().Err(err).Str("session_id", id).Msg("goal session write-through failed")
	}
	return res, nil
}

// NextGoalCard issues the next card without recording a review.
func (m *Manager) NextGoalCard(ctx context.Context, id string) (*learn.Card, error) {
	s, err := m.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.learn.NextCard(s)
}

// GoalProgress returns the progress snapshot, falling back to the
// persisted row once the session has been swept.
func (m *Manager) GoalProgress(ctx context.Context, id string) (learn.GoalProgress, error) {
	if s, ok := m.goals.get(id); ok {
		s.Touch()
		return s.Progress(), nil
	}

	row, err := m.store.GetGoalSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return learn.GoalProgress{}, ErrNotFound
	}
	if err != nil {
		return learn.GoalProgress{}, err
	}

	pct := 0.0
	if row.TargetWordCount > 0 {
		pct = float64(row.WordsMastered) / float64(row.TargetWordCount) * 100
		if pct > 100 {
			pct = 100
		}
	}
	return learn.GoalProgress{
		WordsStudied:         row.WordsStudied,
		WordsMastered:        row.WordsMastered,
		TotalReviews:         row.TotalReviews,
		TargetWordCount:      row.TargetWordCount,
		CompletionPercentage: pct,
	}, nil
}

// dropGoal flushes final counters and evicts the session. Word rows
// were written through on every submit, so only the session row needs a
// last save.
func (m *Manager) dropGoal(ctx context.Context, s *learn.GoalSession) {
	if err := m.store.SaveGoalSession(ctx, goalRow(s)); err != nil {
		m.logger.Warn().Err(err).Str("session_id", s.ID).Msg("goal session final save failed")
	}
	m.goals.remove(s.ID)
	m.commitLocks.Delete(s.ID)
	m.refreshGauges()
	m.logger.Info().Str("session_id", s.ID).Msg("idle goal session evicted")
}

// goalRow flattens a goal session into its persisted form.
func goalRow(s *learn.GoalSession) store.GoalSession {
	p := s.Progress()
	return store.GoalSession{
		ID:              s.ID,
		UserID:          s.UserID,
		GoalID:          s.GoalID,
		GoalName:        s.GoalName,
		TargetWordCount: s.TargetWords,
		WordsStudied:    p.WordsStudied,
		WordsMastered:   p.WordsMastered,
		TotalReviews:    p.TotalReviews,
		StartedAt:       s.StartedAt,
		LastActivityAt:  s.LastActivity(),
	}
}

// learnedWordRow flattens one word's scheduling state, encoding the
// assessment history as JSON.
func learnedWordRow(sessionID string, w learn.LearnedWord) store.LearnedWord {
	history, err := json.Marshal(w.History)
	if err != nil {
		history = []byte("[]")
	}
	return store.LearnedWord{
		SessionID:    sessionID,
		Word:         w.Word,
		ReviewCount:  w.ReviewCount,
		CorrectCount: w.CorrectCount,
		NextReviewAt: w.NextReviewAt,
		EaseFactor:   w.EaseFactor,
		IntervalDays: w.IntervalDays,
		IsMastered:   w.IsMastered,
		MasteredAt:   w.MasteredAt,
		HistoryJSON:  history,
		DVKLevel:     w.DVKLevel,
	}
}
