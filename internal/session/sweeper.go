// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package session

import (
	"context"
	"time"

	"github.com/dwkang/lexicat/internal/cat"
)

// Serve runs the periodic idle sweep until the context is canceled,
// then drains every live session so nothing durable is lost across a
// restart. Implements suture.Service.
func (m *Manager) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep(ctx)
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
			m.drain(drainCtx)
			cancel()
			return ctx.Err()
		}
	}
}

// String implements suture's friendly service naming.
func (m *Manager) String() string { return "session-sweeper" }

// SweepNow runs one sweep pass immediately and purges stale
// uncompleted rows from the store. Backs the manual admin cleanup.
func (m *Manager) SweepNow(ctx context.Context) (expired int, purged int64) {
	expired = m.sweep(ctx)

	purged, err := m.store.PurgeStaleSessions(ctx, time.Now().Add(-m.ttl))
	if err != nil {
		m.logger.Warn().Err(err).Msg("stale row purge failed")
	}
	return expired, purged
}

// sweep expires idle sessions and retries archives that failed on the
// hot path. A session touched between the idle check and Expire keeps
// running; Expire reports false and the handler call wins.
func (m *Manager) sweep(ctx context.Context) int {
	cutoff := time.Now().Add(-m.ttl)
	expired := 0

	for _, s := range m.tests.values() {
		switch {
		case s.State() == cat.StateTerminated:
			// Archive failed when the session terminated; retry.
			m.finishTest(ctx, s)
		case s.LastActivity().Before(cutoff):
			if m.cat.Expire(s) {
				m.finishTest(ctx, s)
				expired++
			}
		}
	}

	for _, s := range m.goals.values() {
		if s.LastActivity().Before(cutoff) {
			m.dropGoal(ctx, s)
			expired++
		}
	}

	if expired > 0 {
		tests, goals := m.LiveCount()
		m.logger.Info().
			Int("expired", expired).
			Int("live_tests", tests).
			Int("live_goals", goals).
			Msg("idle sessions swept")
	}
	return expired
}

// drain archives every live test session as expired and flushes every
// goal session. Runs once at shutdown.
func (m *Manager) drain(ctx context.Context) {
	tests := m.tests.values()
	goals := m.goals.values()

	for _, s := range tests {
		if s.State() != cat.StateTerminated {
			m.cat.Expire(s)
		}
		m.finishTest(ctx, s)
	}
	for _, s := range goals {
		m.dropGoal(ctx, s)
	}

	if len(tests)+len(goals) > 0 {
		m.logger.Info().
			Int("tests", len(tests)).
			Int("goals", len(goals)).
			Msg("live sessions drained on shutdown")
	}
}
