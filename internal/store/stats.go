// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ItemObservations groups archived responses by item for calibration.
// The ability covariate is the session's terminal estimate, so only
// completed sessions contribute.
func (d *DB) ItemObservations(ctx context.Context) (map[int][]ItemObservation, error) {
	const query = `SELECT r.item_id, s.final_theta, r.is_correct
	FROM responses r
	JOIN test_sessions s ON r.session_id = s.id
	WHERE s.completed_at IS NOT NULL AND s.final_theta IS NOT NULL
	ORDER BY r.item_id`

	rows, err := d.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load item observations: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]ItemObservation)
	for rows.Next() {
		var (
			itemID  int
			theta   float64
			correct bool
		)
		if err := rows.Scan(&itemID, &theta, &correct); err != nil {
			return nil, fmt.Errorf("scan item observation: %w", err)
		}
		out[itemID] = append(out[itemID], ItemObservation{Theta: theta, Correct: correct})
	}
	return out, rows.Err()
}

// CompletedSessionCount returns how many tests have been archived with
// a terminal estimate. Calibration gates its model switch on this.
func (d *DB) CompletedSessionCount(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM test_sessions WHERE completed_at IS NOT NULL`
	var n int
	if err := d.conn.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count completed sessions: %w", err)
	}
	return n, nil
}

// Stats aggregates the operational counters for the admin surface.
func (d *DB) Stats(ctx context.Context) (Stats, error) {
	var s Stats

	const sessionsQuery = `SELECT
		COUNT(*),
		COUNT(completed_at),
		COALESCE(AVG(final_theta) FILTER (WHERE completed_at IS NOT NULL), 0)
	FROM test_sessions`
	var meanTheta sql.NullFloat64
	if err := d.conn.QueryRowContext(ctx, sessionsQuery).Scan(&s.TotalSessions, &s.CompletedSessions, &meanTheta); err != nil {
		return Stats{}, fmt.Errorf("session stats: %w", err)
	}
	s.MeanTheta = meanTheta.Float64

	if err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&s.TotalUsers); err != nil {
		return Stats{}, fmt.Errorf("user stats: %w", err)
	}
	if err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses`).Scan(&s.TotalResponses); err != nil {
		return Stats{}, fmt.Errorf("response stats: %w", err)
	}
	if err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM goal_learning_sessions`).Scan(&s.GoalSessions); err != nil {
		return Stats{}, fmt.Errorf("goal session stats: %w", err)
	}
	if err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM learned_words WHERE is_mastered`).Scan(&s.MasteredWords); err != nil {
		return Stats{}, fmt.Errorf("learned word stats: %w", err)
	}

	const meanItemsQuery = `SELECT COALESCE(AVG(n), 0) FROM (
		SELECT COUNT(*) AS n
		FROM responses r
		JOIN test_sessions t ON r.session_id = t.id
		WHERE t.completed_at IS NOT NULL
		GROUP BY r.session_id
	)`
	if err := d.conn.QueryRowContext(ctx, meanItemsQuery).Scan(&s.MeanItemsPerTest); err != nil {
		return Stats{}, fmt.Errorf("mean items stats: %w", err)
	}
	return s, nil
}

// PurgeStaleSessions deletes never-completed test sessions idle since
// before the cutoff, together with their responses. Completed sessions
// are never purged.
func (d *DB) PurgeStaleSessions(ctx context.Context, before time.Time) (int64, error) {
	var purged int64
	err := d.withWrite(ctx, "purge stale sessions", func(ctx context.Context) error {
		const deleteResponses = `DELETE FROM responses WHERE session_id IN (
			SELECT id FROM test_sessions WHERE completed_at IS NULL AND last_activity_at < ?
		)`
		if _, err := d.conn.ExecContext(ctx, deleteResponses, before.UTC()); err != nil {
			return err
		}

		const deleteSessions = `DELETE FROM test_sessions
		WHERE completed_at IS NULL AND last_activity_at < ?`
		res, err := d.conn.ExecContext(ctx, deleteSessions, before.UTC())
		if err != nil {
			return err
		}
		purged, err = res.RowsAffected()
		return err
	})
	return purged, err
}
