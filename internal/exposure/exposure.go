// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package exposure tracks how often each item is administered across
// sessions and enforces the exposure cap during selection.
//
// The cap is deterministic: a candidate whose observed rate has reached
// the maximum is dropped outright rather than passing a probabilistic
// eligibility draw. When the cap would empty a candidate set it is
// relaxed once by a fixed amount, and if that still yields nothing the
// selection proceeds ungated with a warning. Counters are plain atomics;
// a write-behind snapshot keeps them across restarts.
package exposure

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/dwkang/lexicat/internal/config"
	"github.com/dwkang/lexicat/internal/logging"
	"github.com/dwkang/lexicat/internal/metrics"
)

const snapshotKey = "exposure:snapshot:v1"

// Controller maintains per-item administration counts and the number of
// sessions started. All mutation paths are atomic; Rate and Gate read
// the counters without locks, so rates may lag a concurrent increment by
// one, which the cap tolerates.
type Controller struct {
	maxRate    float64
	relaxation float64

	counts    []atomic.Uint64
	lastAdmin []atomic.Int64 // unix seconds, 0 = never
	sessions  atomic.Uint64
	dirty     atomic.Bool

	db            *badger.DB
	flushInterval time.Duration
	logger        zerolog.Logger
}

// New returns an in-memory controller for itemCount items.
func New(itemCount int, cfg config.ExposureConfig) *Controller {
	return &Controller{
		maxRate:       cfg.MaxRate,
		relaxation:    cfg.Relaxation,
		counts:        make([]atomic.Uint64, itemCount),
		lastAdmin:     make([]atomic.Int64, itemCount),
		flushInterval: cfg.FlushInterval,
		logger:        logging.WithComponent("exposure"),
	}
}

// Open returns a controller backed by a snapshot store at
// cfg.StorePath, restoring any previous snapshot.
func Open(itemCount int, cfg config.ExposureConfig) (*Controller, error) {
	c := New(itemCount, cfg)

	opts := badger.DefaultOptions(cfg.StorePath)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open exposure store: %w", err)
	}
	c.db = db

	if err := c.restore(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// Close flushes pending counts and closes the snapshot store.
func (c *Controller) Close() error {
	if c.db == nil {
		return nil
	}
	if err := c.Flush(); err != nil {
		c.logger.Error().Err(err).Msg("Final exposure flush failed")
	}
	return c.db.Close()
}

// SessionStarted bumps the session denominator and returns the new total.
func (c *Controller) SessionStarted() uint64 {
	c.dirty.Store(true)
	return c.sessions.Add(1)
}

// RecordAdministration bumps the administration counter for an item.
func (c *Controller) RecordAdministration(itemID int) {
	if itemID < 0 || itemID >= len(c.counts) {
		return
	}
	c.counts[itemID].Add(1)
	c.lastAdmin[itemID].Store(time.Now().Unix())
	c.dirty.Store(true)
}

// Count returns how many times an item has been administered.
func (c *Controller) Count(itemID int) uint64 {
	if itemID < 0 || itemID >= len(c.counts) {
		return 0
	}
	return c.counts[itemID].Load()
}

// TotalSessions returns how many sessions have been started.
func (c *Controller) TotalSessions() uint64 {
	return c.sessions.Load()
}

// Rate returns an item's exposure rate: administrations divided by
// sessions started. Zero before the first session.
func (c *Controller) Rate(itemID int) float64 {
	sessions := c.sessions.Load()
	if sessions == 0 {
		return 0
	}
	return float64(c.Count(itemID)) / float64(sessions)
}

// LastAdministered returns when the item was last administered, or the
// zero time if never.
func (c *Controller) LastAdministered(itemID int) time.Time {
	if itemID < 0 || itemID >= len(c.lastAdmin) {
		return time.Time{}
	}
	unix := c.lastAdmin[itemID].Load()
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}

// Gate applies the exposure cap to a candidate set. Candidates at or
// above the cap are dropped; if none survive, the cap is relaxed once by
// the configured amount, and if the set is still empty all candidates
// pass ungated. The relaxed/ungated outcomes are logged since they mean
// the pool is too thin for the requested constraints.
func (c *Controller) Gate(ids []int) (eligible []int, relaxed bool) {
	sessions := c.sessions.Load()
	if sessions == 0 {
		return ids, false
	}

	under := func(limit float64) []int {
		var out []int
		for _, id := range ids {
			if float64(c.Count(id))/float64(sessions) < limit {
				out = append(out, id)
			}
		}
		return out
	}

	if out := under(c.maxRate); len(out) > 0 {
		return out, false
	}

	if out := under(c.maxRate + c.relaxation); len(out) > 0 {
		metrics.RecordExposureRelaxation()
		c.logger.Debug().
			Int("candidates", len(ids)).
			Float64("relaxed_cap", c.maxRate+c.relaxation).
			Msg("Exposure cap relaxed for selection")
		return out, true
	}

	metrics.RecordExposureRelaxation()
	c.logger.Warn().
		Int("candidates", len(ids)).
		Uint64("sessions", sessions).
		Msg("All candidates over exposure cap, proceeding ungated")
	return ids, true
}

// snapshot is the persisted counter state.
type snapshot struct {
	Sessions  uint64   `json:"sessions"`
	Counts    []uint64 `json:"counts"`
	LastAdmin []int64  `json:"last_admin_unix"`
}

// Flush writes the current counters to the snapshot store.
func (c *Controller) Flush() error {
	if c.db == nil {
		return nil
	}

	snap := snapshot{
		Sessions:  c.sessions.Load(),
		Counts:    make([]uint64, len(c.counts)),
		LastAdmin: make([]int64, len(c.lastAdmin)),
	}
	for i := range c.counts {
		snap.Counts[i] = c.counts[i].Load()
		snap.LastAdmin[i] = c.lastAdmin[i].Load()
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal exposure snapshot: %w", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), data)
	})
	if err != nil {
		return fmt.Errorf("write exposure snapshot: %w", err)
	}
	c.dirty.Store(false)
	return nil
}

// restore loads the snapshot written by a previous process. A snapshot
// for a differently sized bank restores the overlapping prefix; item ids
// are stable across loads of the same vocabulary.
func (c *Controller) restore() error {
	var snap snapshot
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return fmt.Errorf("restore exposure snapshot: %w", err)
	}

	c.sessions.Store(snap.Sessions)
	n := len(snap.Counts)
	if n > len(c.counts) {
		n = len(c.counts)
	}
	for i := 0; i < n; i++ {
		c.counts[i].Store(snap.Counts[i])
	}
	m := len(snap.LastAdmin)
	if m > len(c.lastAdmin) {
		m = len(c.lastAdmin)
	}
	for i := 0; i < m; i++ {
		c.lastAdmin[i].Store(snap.LastAdmin[i])
	}

	if snap.Sessions > 0 {
		c.logger.Info().
			Uint64("sessions", snap.Sessions).
			Int("items", n).
			Msg("Exposure counters restored")
	}
	return nil
}

// Serve runs the periodic snapshot flush until the context is canceled.
// Implements suture.Service.
func (c *Controller) Serve(ctx context.Context) error {
	if c.db == nil || c.flushInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !c.dirty.Load() {
				continue
			}
			if err := c.Flush(); err != nil {
				c.logger.Error().Err(err).Msg("Exposure flush failed")
			}
		case <-ctx.Done():
			if err := c.Flush(); err != nil {
				c.logger.Error().Err(err).Msg("Exposure flush on shutdown failed")
			}
			return ctx.Err()
		}
	}
}

// String implements suture's friendly service naming.
func (c *Controller) String() string { return "exposure-flush" }
