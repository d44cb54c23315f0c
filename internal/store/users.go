// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const saveUserSQL = `INSERT INTO users (id, nickname, created_at, last_active_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	nickname = excluded.nickname,
	last_active_at = excluded.last_active_at`

// SaveUser inserts a user or refreshes nickname and last activity.
func (d *DB) SaveUser(ctx context.Context, u User) error {
	return d.withWrite(ctx, "save user", func(ctx context.Context) error {
		return d.exec(ctx, saveUserSQL, u.ID, u.Nickname, u.CreatedAt.UTC(), u.LastActiveAt.UTC())
	})
}

// GetUser loads one user row.
func (d *DB) GetUser(ctx context.Context, id string) (User, error) {
	const query = `SELECT id, nickname, created_at, last_active_at FROM users WHERE id = ?`

	var u User
	err := d.conn.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Nickname, &u.CreatedAt, &u.LastActiveAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}
