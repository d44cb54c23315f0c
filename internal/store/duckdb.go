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
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dwkang/lexicat/internal/config"
	"github.com/dwkang/lexicat/internal/logging"
)

const (
	defaultMaxMemory = "512MB"
	defaultMaxRetry  = 3
	defaultRetryBase = 50 * time.Millisecond

	// maxRetryDelay caps the exponential backoff between write attempts
	// so a struggling disk never holds a handler for whole seconds per
	// attempt.
	maxRetryDelay = 2 * time.Second

	// breakerTripAfter opens the circuit after this many consecutive
	// write failures; half-open probes resume after breakerTimeout.
	breakerTripAfter = 5
	breakerTimeout   = 30 * time.Second
)

// DB is the DuckDB-backed Store implementation.
type DB struct {
	conn   *sql.DB
	logger zerolog.Logger

	// stmtCache holds prepared statements for the hot write paths.
	// Double-checked locking keeps the common hit lock-light.
	stmtCache map[string]*sql.Stmt
	stmtMu    sync.RWMutex

	// writeMu serializes every mutation. DuckDB tolerates concurrent
	// writers, but the single ordered writer is what keeps response
	// rows in sequence per session on disk.
	writeMu sync.Mutex

	breaker *gobreaker.CircuitBreaker[struct{}]

	maxRetry  int
	retryBase time.Duration
}

// Open creates the database file (or an in-memory instance for the
// path ":memory:"), applies the schema, and returns a ready store.
func Open(cfg config.StorageConfig) (*DB, error) {
	logger := logging.WithComponent("store")

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = defaultMaxMemory
	}
	maxRetry := cfg.MaxRetry
	if maxRetry <= 0 {
		maxRetry = defaultMaxRetry
	}
	retryBase := cfg.RetryBase
	if retryBase <= 0 {
		retryBase = defaultRetryBase
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s", path, threads, maxMemory)
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &DB{
		conn:      conn,
		logger:    logger,
		stmtCache: make(map[string]*sql.Stmt),
		maxRetry:  maxRetry,
		retryBase: retryBase,
	}
	d.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "store-write",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		// Cancelled requests say nothing about the health of the write
		// path, so they must not push the breaker open.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("write breaker state change")
		},
	})

	if err := d.initSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logger.Info().Str("path", path).Int("threads", threads).Str("max_memory", maxMemory).Msg("store opened")
	return d, nil
}

// Ping verifies the connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.conn.PingContext(ctx)
}

// Close releases prepared statements and the underlying connection.
func (d *DB) Close() error {
	d.stmtMu.Lock()
	for _, stmt := range d.stmtCache {
		_ = stmt.Close()
	}
	d.stmtCache = make(map[string]*sql.Stmt)
	d.stmtMu.Unlock()
	return d.conn.Close()
}

// stmt returns a cached prepared statement, compiling it on first use.
func (d *DB) stmt(ctx context.Context, query string) (*sql.Stmt, error) {
	d.stmtMu.RLock()
	s, ok := d.stmtCache[query]
	d.stmtMu.RUnlock()
	if ok {
		return s, nil
	}

	d.stmtMu.Lock()
	defer d.stmtMu.Unlock()
	if s, ok := d.stmtCache[query]; ok {
		return s, nil
	}
	s, err := d.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	d.stmtCache[query] = s
	return s, nil
}

// exec runs one cached mutation statement.
func (d *DB) exec(ctx context.Context, query string, args ...any) error {
	stmt, err := d.stmt(ctx, query)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, args...)
	return err
}

// withWrite funnels a mutation through the breaker, the single-writer
// lock, and the retry loop. Exhausted retries and an open breaker both
// come back wrapped in ErrUnavailable.
func (d *DB) withWrite(ctx context.Context, op string, fn func(context.Context) error) error {
	_, err := d.breaker.Execute(func() (struct{}, error) {
		d.writeMu.Lock()
		defer d.writeMu.Unlock()
		return struct{}{}, d.retryWrite(ctx, fn)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		d.logger.Warn().Str("op", op).Msg("write rejected, breaker open")
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		d.logger.Error().Err(err).Str("op", op).Msg("write failed after retries")
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
}

// retryWrite runs fn up to maxRetry+1 times with capped exponential
// backoff. Context errors are never retried.
func (d *DB) retryWrite(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil || attempt >= d.maxRetry || !retryable(err) {
			return err
		}
		delay := d.retryBase << uint(attempt)
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
		d.logger.Debug().Err(err).Int("attempt", attempt+1).Dur("backoff", delay).Msg("retrying write")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func retryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// nullTime maps the zero time to SQL NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// scanFunc scans a single row into a result value.
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan executes a query and scans all rows with scan.
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []any, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
