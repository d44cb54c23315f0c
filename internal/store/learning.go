// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

const saveGoalSessionSQL = `INSERT INTO goal_learning_sessions
	(id, user_id, goal_id, goal_name, target_word_count,
	 words_studied, words_mastered, total_reviews, started_at, last_activity_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	words_studied = excluded.words_studied,
	words_mastered = excluded.words_mastered,
	total_reviews = excluded.total_reviews,
	last_activity_at = excluded.last_activity_at`

// SaveGoalSession inserts a goal session or refreshes its counters.
// Identity columns never change after the first write.
func (d *DB) SaveGoalSession(ctx context.Context, row GoalSession) error {
	return d.withWrite(ctx, "save goal session", func(ctx context.Context) error {
		return d.exec(ctx, saveGoalSessionSQL,
			row.ID, row.UserID, row.GoalID, row.GoalName, row.TargetWordCount,
			row.WordsStudied, row.WordsMastered, row.TotalReviews,
			row.StartedAt.UTC(), row.LastActivityAt.UTC())
	})
}

const saveLearnedWordSQL = `INSERT INTO learned_words
	(id, session_id, word, review_count, correct_count, next_review_at,
	 ease_factor, interval_days, is_mastered, mastered_at,
	 assessment_history_json, dvk_level)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (session_id, word) DO UPDATE SET
	review_count = excluded.review_count,
	correct_count = excluded.correct_count,
	next_review_at = excluded.next_review_at,
	ease_factor = excluded.ease_factor,
	interval_days = excluded.interval_days,
	is_mastered = excluded.is_mastered,
	mastered_at = excluded.mastered_at,
	assessment_history_json = excluded.assessment_history_json,
	dvk_level = excluded.dvk_level`

// SaveLearnedWord writes through one word's scheduling state after a
// review.
func (d *DB) SaveLearnedWord(ctx context.Context, w LearnedWord) error {
	history := string(w.HistoryJSON)
	if history == "" {
		history = "[]"
	}
	return d.withWrite(ctx, "save learned word", func(ctx context.Context) error {
		return d.exec(ctx, saveLearnedWordSQL,
			uuid.NewString(), w.SessionID, w.Word, w.ReviewCount, w.CorrectCount,
			w.NextReviewAt.UTC(), w.EaseFactor, w.IntervalDays,
			w.IsMastered, nullTime(w.MasteredAt), history, w.DVKLevel)
	})
}

const selectGoalSessionSQL = `SELECT id, user_id, goal_id, goal_name, target_word_count,
	words_studied, words_mastered, total_reviews, started_at, last_activity_at
FROM goal_learning_sessions`

func scanGoalSession(rows *sql.Rows) (GoalSession, error) {
	var row GoalSession
	err := rows.Scan(&row.ID, &row.UserID, &row.GoalID, &row.GoalName, &row.TargetWordCount,
		&row.WordsStudied, &row.WordsMastered, &row.TotalReviews, &row.StartedAt, &row.LastActivityAt)
	return row, err
}

// GetGoalSession loads one goal session row.
func (d *DB) GetGoalSession(ctx context.Context, id string) (GoalSession, error) {
	rows, err := queryAndScan(ctx, d.conn, selectGoalSessionSQL+` WHERE id = ?`, []any{id}, scanGoalSession)
	if err != nil {
		return GoalSession{}, fmt.Errorf("load goal session: %w", err)
	}
	if len(rows) == 0 {
		return GoalSession{}, fmt.Errorf("goal session %s: %w", id, ErrNotFound)
	}
	return rows[0], nil
}

const selectLearnedWordSQL = `SELECT session_id, word, review_count, correct_count,
	next_review_at, ease_factor, interval_days, is_mastered, mastered_at,
	assessment_history_json, dvk_level
FROM learned_words`

func scanLearnedWord(rows *sql.Rows) (LearnedWord, error) {
	var (
		w          LearnedWord
		masteredAt sql.NullTime
		history    string
	)
	err := rows.Scan(&w.SessionID, &w.Word, &w.ReviewCount, &w.CorrectCount,
		&w.NextReviewAt, &w.EaseFactor, &w.IntervalDays, &w.IsMastered,
		&masteredAt, &history, &w.DVKLevel)
	if err != nil {
		return LearnedWord{}, err
	}
	if masteredAt.Valid {
		w.MasteredAt = masteredAt.Time
	}
	w.HistoryJSON = []byte(history)
	return w, nil
}

// ListLearnedWords returns all word rows of one goal session, ordered
// by word.
func (d *DB) ListLearnedWords(ctx context.Context, sessionID string) ([]LearnedWord, error) {
	query := selectLearnedWordSQL + ` WHERE session_id = ? ORDER BY word`
	rows, err := queryAndScan(ctx, d.conn, query, []any{sessionID}, scanLearnedWord)
	if err != nil {
		return nil, fmt.Errorf("list learned words: %w", err)
	}
	return rows, nil
}

// ListUserLearnedWords returns every word a user has studied across all
// their goal sessions. The knowledge matrix is built from this.
func (d *DB) ListUserLearnedWords(ctx context.Context, userID string) ([]LearnedWord, error) {
	query := `SELECT w.session_id, w.word, w.review_count, w.correct_count,
		w.next_review_at, w.ease_factor, w.interval_days, w.is_mastered, w.mastered_at,
		w.assessment_history_json, w.dvk_level
	FROM learned_words w
	JOIN goal_learning_sessions g ON w.session_id = g.id
	WHERE g.user_id = ?
	ORDER BY w.word, w.session_id`
	rows, err := queryAndScan(ctx, d.conn, query, []any{userID}, scanLearnedWord)
	if err != nil {
		return nil, fmt.Errorf("list user learned words: %w", err)
	}
	return rows, nil
}
