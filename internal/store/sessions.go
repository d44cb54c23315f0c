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

const createTestSessionSQL = `INSERT INTO test_sessions
	(id, user_id, started_at, last_activity_at, profile_json)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT DO NOTHING`

// CreateTestSession records a freshly started test so its responses
// have a parent row even if the process dies mid-test.
func (d *DB) CreateTestSession(ctx context.Context, row TestSession) error {
	return d.withWrite(ctx, "create test session", func(ctx context.Context) error {
		return d.exec(ctx, createTestSessionSQL,
			row.ID, row.UserID, row.StartedAt.UTC(), row.LastActivityAt.UTC(), string(row.ProfileJSON))
	})
}

const appendResponseSQL = `INSERT INTO responses
	(id, session_id, item_id, question_type, is_correct, is_dont_know,
	 response_time_ms, theta_after, se_after, sequence_idx, answered_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT DO NOTHING`

// AppendResponse durably appends one committed answer. Re-appending the
// same (session, sequence) pair is a no-op, so a retried handler call
// cannot double-write.
func (d *DB) AppendResponse(ctx context.Context, row Response) error {
	return d.withWrite(ctx, "append response", func(ctx context.Context) error {
		return d.exec(ctx, appendResponseSQL,
			uuid.NewString(), row.SessionID, row.ItemID, row.QuestionType,
			row.IsCorrect, row.IsDontKnow, row.ResponseTimeMs,
			row.ThetaAfter, row.SEAfter, row.SequenceIdx, row.AnsweredAt.UTC())
	})
}

const archiveTestSessionSQL = `INSERT INTO test_sessions
	(id, user_id, started_at, last_activity_at, completed_at,
	 final_theta, final_se, termination_reason, profile_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	last_activity_at = excluded.last_activity_at,
	completed_at = excluded.completed_at,
	final_theta = excluded.final_theta,
	final_se = excluded.final_se,
	termination_reason = excluded.termination_reason,
	profile_json = excluded.profile_json`

// ArchiveTestSession writes the terminal snapshot. The upsert covers
// the rare case where the create was lost but the test still ran.
func (d *DB) ArchiveTestSession(ctx context.Context, row TestSession) error {
	return d.withWrite(ctx, "archive test session", func(ctx context.Context) error {
		return d.exec(ctx, archiveTestSessionSQL,
			row.ID, row.UserID, row.StartedAt.UTC(), row.LastActivityAt.UTC(),
			nullTime(row.CompletedAt), row.FinalTheta, row.FinalSE,
			row.TerminationReason, string(row.ProfileJSON))
	})
}

const selectTestSessionSQL = `SELECT id, user_id, started_at, last_activity_at,
	completed_at, final_theta, final_se, termination_reason, profile_json
FROM test_sessions`

func scanTestSession(rows *sql.Rows) (TestSession, error) {
	var (
		row         TestSession
		completedAt sql.NullTime
		theta, se   sql.NullFloat64
		reason      sql.NullString
		profile     sql.NullString
	)
	err := rows.Scan(&row.ID, &row.UserID, &row.StartedAt, &row.LastActivityAt,
		&completedAt, &theta, &se, &reason, &profile)
	if err != nil {
		return TestSession{}, err
	}
	if completedAt.Valid {
		row.CompletedAt = completedAt.Time
	}
	row.FinalTheta = theta.Float64
	row.FinalSE = se.Float64
	row.TerminationReason = reason.String
	if profile.Valid {
		row.ProfileJSON = []byte(profile.String)
	}
	return row, nil
}

// GetTestSession loads one session row, completed or not.
func (d *DB) GetTestSession(ctx context.Context, id string) (TestSession, error) {
	rows, err := queryAndScan(ctx, d.conn, selectTestSessionSQL+` WHERE id = ?`, []any{id}, scanTestSession)
	if err != nil {
		return TestSession{}, fmt.Errorf("load test session: %w", err)
	}
	if len(rows) == 0 {
		return TestSession{}, fmt.Errorf("test session %s: %w", id, ErrNotFound)
	}
	return rows[0], nil
}

const userSessionDigestsSQL = `SELECT s.id, s.started_at, s.completed_at,
	s.final_theta, s.final_se, s.termination_reason,
	COUNT(r.id) AS total_items,
	COALESCE(SUM(CASE WHEN r.is_correct THEN 1 ELSE 0 END), 0) AS total_correct
FROM test_sessions s
LEFT JOIN responses r ON r.session_id = s.id
WHERE s.user_id = ?
GROUP BY s.id, s.started_at, s.completed_at, s.final_theta, s.final_se, s.termination_reason
ORDER BY s.started_at, s.id`

// UserSessionDigests returns a user's sessions joined with their
// response counts, oldest first so callers can chart the trend.
func (d *DB) UserSessionDigests(ctx context.Context, userID string) ([]SessionDigest, error) {
	rows, err := queryAndScan(ctx, d.conn, userSessionDigestsSQL, []any{userID}, func(rows *sql.Rows) (SessionDigest, error) {
		var (
			dg          SessionDigest
			completedAt sql.NullTime
			theta, se   sql.NullFloat64
			reason      sql.NullString
		)
		err := rows.Scan(&dg.ID, &dg.StartedAt, &completedAt, &theta, &se, &reason,
			&dg.TotalItems, &dg.TotalCorrect)
		if err != nil {
			return SessionDigest{}, err
		}
		if completedAt.Valid {
			dg.CompletedAt = completedAt.Time
		}
		dg.FinalTheta = theta.Float64
		dg.FinalSE = se.Float64
		dg.TerminationReason = reason.String
		return dg, nil
	})
	if err != nil {
		return nil, fmt.Errorf("user session digests: %w", err)
	}
	return rows, nil
}

const listResponsesSQL = `SELECT session_id, item_id, question_type, is_correct,
	is_dont_know, response_time_ms, theta_after, se_after, sequence_idx, answered_at
FROM responses WHERE session_id = ? ORDER BY sequence_idx`

// ListResponses returns a session's committed answers in sequence
// order. This is the replay feed for the results read side.
func (d *DB) ListResponses(ctx context.Context, sessionID string) ([]Response, error) {
	rows, err := queryAndScan(ctx, d.conn, listResponsesSQL, []any{sessionID}, func(rows *sql.Rows) (Response, error) {
		var r Response
		err := rows.Scan(&r.SessionID, &r.ItemID, &r.QuestionType, &r.IsCorrect,
			&r.IsDontKnow, &r.ResponseTimeMs, &r.ThetaAfter, &r.SEAfter, &r.SequenceIdx, &r.AnsweredAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return rows, nil
}
