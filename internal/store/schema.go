// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package store

import (
	"context"
	"fmt"
)

// initSchema creates all tables and indexes. Every statement is
// idempotent, so reopening an existing database is a no-op.
func (d *DB) initSchema(ctx context.Context) error {
	for _, query := range tableCreationQueries() {
		if _, err := d.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			nickname TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			last_active_at TIMESTAMP NOT NULL
		)`,

		// Terminal columns stay NULL while the test is running; the
		// archive upsert fills them exactly once.
		`CREATE TABLE IF NOT EXISTS test_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			last_activity_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP,
			final_theta DOUBLE,
			final_se DOUBLE,
			termination_reason TEXT,
			profile_json TEXT
		)`,

		// The (session_id, sequence_idx) constraint is what makes
		// AppendResponse idempotent under ON CONFLICT DO NOTHING.
		`CREATE TABLE IF NOT EXISTS responses (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			item_id INTEGER NOT NULL,
			question_type SMALLINT NOT NULL,
			is_correct BOOLEAN NOT NULL,
			is_dont_know BOOLEAN NOT NULL DEFAULT FALSE,
			response_time_ms INTEGER NOT NULL DEFAULT 0,
			theta_after DOUBLE NOT NULL,
			se_after DOUBLE NOT NULL,
			sequence_idx INTEGER NOT NULL,
			answered_at TIMESTAMP NOT NULL,
			UNIQUE (session_id, sequence_idx)
		)`,

		`CREATE TABLE IF NOT EXISTS goal_learning_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			goal_id TEXT NOT NULL,
			goal_name TEXT NOT NULL DEFAULT '',
			target_word_count INTEGER NOT NULL,
			words_studied INTEGER NOT NULL DEFAULT 0,
			words_mastered INTEGER NOT NULL DEFAULT 0,
			total_reviews INTEGER NOT NULL DEFAULT 0,
			started_at TIMESTAMP NOT NULL,
			last_activity_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS learned_words (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			word TEXT NOT NULL,
			review_count INTEGER NOT NULL DEFAULT 0,
			correct_count INTEGER NOT NULL DEFAULT 0,
			next_review_at TIMESTAMP NOT NULL,
			ease_factor DOUBLE NOT NULL,
			interval_days INTEGER NOT NULL DEFAULT 0,
			is_mastered BOOLEAN NOT NULL DEFAULT FALSE,
			mastered_at TIMESTAMP,
			assessment_history_json TEXT NOT NULL DEFAULT '[]',
			dvk_level SMALLINT NOT NULL DEFAULT 1,
			UNIQUE (session_id, word)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_responses_session ON responses (session_id, sequence_idx)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_item ON responses (item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_test_sessions_user ON test_sessions (user_id, started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_goal_sessions_user ON goal_learning_sessions (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_learned_words_session ON learned_words (session_id)`,
	}
}
