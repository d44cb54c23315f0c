// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package session owns the process-wide mapping from session id to live
// session. It creates sessions with collision-resistant ids, funnels
// every commit through a per-session lock so durable appends land in
// commit order, archives terminated sessions into the store, and sweeps
// idle ones on a timer. After archive-and-drop, reads are served from
// the persisted copy.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/cat"
	"github.com/dwkang/lexicat/internal/config"
	"github.com/dwkang/lexicat/internal/learn"
	"github.com/dwkang/lexicat/internal/logging"
	"github.com/dwkang/lexicat/internal/metrics"
	"github.com/dwkang/lexicat/internal/report"
	"github.com/dwkang/lexicat/internal/store"
)

// Sentinel errors surfaced by the manager. The API layer maps them onto
// the wire error kinds.
var (
	// ErrNotFound means the id matches no live or archived session.
	ErrNotFound = errors.New("session not found")

	// ErrExpired means the session sat idle past the TTL and was
	// evicted.
	ErrExpired = errors.New("session expired")

	// ErrNotTerminated is returned when results are requested for a
	// test that is still running.
	ErrNotTerminated = errors.New("test not finished")
)

const defaultSweepInterval = 5 * time.Minute

// drainTimeout bounds the store writes performed while shutting down,
// when the service context is already canceled.
const drainTimeout = 10 * time.Second

// Broadcaster pushes session lifecycle events to the live admin
// stream. Satisfied by *live.Hub; nil disables broadcasting.
type Broadcaster interface {
	BroadcastTestStarted(sessionID, userID, grade string)
	BroadcastTestCompleted(sessionID, userID string, theta float64, cefrLevel string, totalItems int, reason string)
	BroadcastTestExpired(sessionID string, itemsCompleted int)
	BroadcastGoalStarted(sessionID, userID, goalID string, targetWordCount int)
	BroadcastGoalCompleted(sessionID, goalID string, wordsMastered int)
}

// Manager is the session registry plus its lifecycle plumbing. It is
// safe for concurrent use.
type Manager struct {
	cat    *cat.Engine
	learn  *learn.Engine
	store  store.Store
	bank   *bank.Handle
	live   Broadcaster
	logger zerolog.Logger

	tests *registry[*cat.Session]
	goals *registry[*learn.GoalSession]

	// commitLocks holds one mutex per live session id. Holding it
	// across engine commit plus durable append keeps the persisted
	// trace in commit order.
	commitLocks sync.Map

	ttl           time.Duration
	sweepInterval time.Duration
}

// NewManager wires the registries to the engines and the persistence
// port. The idle TTL comes from the CAT engine so both agree on when a
// session is stale.
func NewManager(cfg config.CATConfig, catEngine *cat.Engine, learnEngine *learn.Engine, st store.Store, h *bank.Handle) *Manager {
	sweep := cfg.SweepInterval
	if sweep <= 0 {
		sweep = defaultSweepInterval
	}
	return &Manager{
		cat:           catEngine,
		learn:         learnEngine,
		store:         st,
		bank:          h,
		logger:        logging.WithComponent("session"),
		tests:         newRegistry[*cat.Session](),
		goals:         newRegistry[*learn.GoalSession](),
		ttl:           catEngine.SessionTTL(),
		sweepInterval: sweep,
	}
}

// SetBroadcaster attaches the live event hub. Must be called before
// Serve; sessions started earlier broadcast nothing.
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.live = b
}

// LiveCount returns the number of sessions currently held in memory.
func (m *Manager) LiveCount() (tests, goals int) {
	return m.tests.size(), m.goals.size()
}

// refreshGauges pushes the live session counts to the metrics gauges.
// Called after every registry mutation.
func (m *Manager) refreshGauges() {
	metrics.SetActiveSessions(m.LiveCount())
}

func (m *Manager) commitLock(id string) *sync.Mutex {
	v, _ := m.commitLocks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// ensureUser resolves the acting user: an empty id mints a new one, and
// either way the row is upserted with the current activity time.
func (m *Manager) ensureUser(ctx context.Context, userID, nickname string) (string, error) {
	now := time.Now().UTC()
	if userID == "" {
		userID = uuid.NewString()
	}
	u := store.User{ID: userID, Nickname: nickname, CreatedAt: now, LastActiveAt: now}
	if existing, err := m.store.GetUser(ctx, userID); err == nil {
		u.CreatedAt = existing.CreatedAt
		if nickname == "" {
			u.Nickname = existing.Nickname
		}
	}
	if err := m.store.SaveUser(ctx, u); err != nil {
		return "", err
	}
	return userID, nil
}

// StartTest creates a CAT session, issues its first item, and registers
// it under a fresh id. The session row is persisted before the session
// becomes reachable, so the response trace always has a parent.
func (m *Manager) StartTest(ctx context.Context, userID string, p cat.Profile) (*cat.Session, *bank.Rendered, error) {
	userID, err := m.ensureUser(ctx, userID, p.Nickname)
	if err != nil {
		return nil, nil, err
	}

	s := cat.NewSession(uuid.NewString(), userID, p)
	first, err := m.cat.Start(s)
	if err != nil {
		return nil, nil, err
	}

	profileJSON, err := json.Marshal(p)
	if err != nil {
		return nil, nil, fmt.Errorf("encode profile: %w", err)
	}
	row := store.TestSession{
		ID:             s.ID,
		UserID:         userID,
		StartedAt:      s.StartedAt,
		LastActivityAt: s.LastActivity(),
		ProfileJSON:    profileJSON,
	}
	if err := m.store.CreateTestSession(ctx, row); err != nil {
		return nil, nil, err
	}

	m.tests.put(s.ID, s)
	m.refreshGauges()
	metrics.RecordTestStarted()
	if m.live != nil {
		m.live.BroadcastTestStarted(s.ID, userID, p.Grade)
	}
	m.logger.Info().
		Str("session_id", s.ID).
		Str("user_id", userID).
		Float64("initial_theta", s.InitialTheta()).
		Msg("test session created")
	return s, first, nil
}

// GetTest returns a live test session and refreshes its activity clock.
// An idle session past the TTL is expired and archived on the spot.
func (m *Manager) GetTest(ctx context.Context, id string) (*cat.Session, error) {
	s, ok := m.tests.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if time.Since(s.LastActivity()) > m.ttl {
		if m.cat.Expire(s) {
			m.finishTest(ctx, s)
		}
		return nil, ErrExpired
	}
	s.Touch()
	return s, nil
}

// SubmitTest commits one response and durably appends it. On
// termination the session is archived and dropped before the result is
// returned.
func (m *Manager) SubmitTest(ctx context.Context, id string, itemID int, isCorrect, isDontKnow bool, responseTimeMs int) (*cat.SubmitResult, error) {
	s, err := m.GetTest(ctx, id)
	if err != nil {
		return nil, err
	}

	lock := m.commitLock(id)
	lock.Lock()
	defer lock.Unlock()

	res, err := m.cat.Submit(s, itemID, isCorrect, isDontKnow, responseTimeMs)
	if err != nil {
		if errors.Is(err, cat.ErrCorrupted) {
			// The session aborted. Archive what was committed so the
			// trace survives the drop.
			m.finishTest(ctx, s)
		}
		return nil, err
	}

	if appendErr := m.store.AppendResponse(ctx, responseRow(id, res.Record)); appendErr != nil {
		// The in-memory commit stands. The append is retried wholesale
		// at archive time, so surface the failure without rolling back.
		m.logger.Error().Err(appendErr).Str("session_id", id).Int("sequence", res.Record.Sequence).Msg("response append failed")
		return nil, appendErr
	}
	metrics.RecordItemAdministered(res.Record.QuestionType.String())

	if res.Terminated {
		m.finishTest(ctx, s)
	}
	return res, nil
}

// responseRow flattens a committed record into its persisted form.
func responseRow(sessionID string, rec cat.ResponseRecord) store.Response {
	return store.Response{
		SessionID:      sessionID,
		ItemID:         rec.ItemID,
		QuestionType:   int(rec.QuestionType),
		IsCorrect:      rec.IsCorrect,
		IsDontKnow:     rec.IsDontKnow,
		ResponseTimeMs: rec.ResponseTimeMs,
		ThetaAfter:     rec.ThetaAfter,
		SEAfter:        rec.SEAfter,
		SequenceIdx:    rec.Sequence,
		AnsweredAt:     rec.At,
	}
}

// finishTest archives a terminated session and drops it from the
// registry. The append pass re-writes every committed response; the
// unique constraint makes rows that already landed a no-op, so a
// mid-test append failure heals here. On archive failure the session
// stays registered and the next sweep retries.
func (m *Manager) finishTest(ctx context.Context, s *cat.Session) {
	records := s.Responses()
	for _, rec := range records {
		if err := m.store.AppendResponse(ctx, responseRow(s.ID, rec)); err != nil {
			m.logger.Error().Err(err).Str("session_id", s.ID).Msg("archive append failed, will retry on sweep")
			return
		}
	}

	profileJSON, err := json.Marshal(s.Profile)
	if err != nil {
		profileJSON = nil
	}
	row := store.TestSession{
		ID:                s.ID,
		UserID:            s.UserID,
		StartedAt:         s.StartedAt,
		LastActivityAt:    s.LastActivity(),
		CompletedAt:       s.LastActivity(),
		FinalTheta:        s.Theta(),
		FinalSE:           s.SE(),
		TerminationReason: string(s.Reason()),
		ProfileJSON:       profileJSON,
	}
	if err := m.store.ArchiveTestSession(ctx, row); err != nil {
		m.logger.Error().Err(err).Str("session_id", s.ID).Msg("archive failed, will retry on sweep")
		return
	}

	m.tests.remove(s.ID)
	m.commitLocks.Delete(s.ID)
	m.refreshGauges()
	metrics.RecordTestCompleted(string(s.Reason()), len(records), s.Theta())
	if m.live != nil {
		if s.Reason() == cat.ReasonExpired {
			m.live.BroadcastTestExpired(s.ID, len(records))
		} else {
			m.live.BroadcastTestCompleted(s.ID, s.UserID, s.Theta(), report.CEFRLevel(s.Theta()), len(records), string(s.Reason()))
		}
	}
	m.logger.Info().
		Str("session_id", s.ID).
		Str("reason", string(s.Reason())).
		Int("items", len(records)).
		Msg("test session archived")
}

// terminalInput resolves a session id to the scoring input for the
// report builders. Live terminated sessions (archive still pending) are
// read directly; everything else is rehydrated from the store. Running
// sessions yield ErrNotTerminated.
func (m *Manager) terminalInput(ctx context.Context, id string) (report.Input, error) {
	if s, ok := m.tests.get(id); ok {
		if s.State() != cat.StateTerminated {
			return report.Input{}, ErrNotTerminated
		}
		return report.Input{
			SessionID: s.ID,
			Theta:     s.Theta(),
			SE:        s.SE(),
			Reason:    s.Reason(),
			Records:   s.Responses(),
		}, nil
	}

	row, err := m.store.GetTestSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return report.Input{}, ErrNotFound
	}
	if err != nil {
		return report.Input{}, err
	}
	if !row.Completed() {
		return report.Input{}, ErrNotTerminated
	}

	responses, err := m.store.ListResponses(ctx, id)
	if err != nil {
		return report.Input{}, err
	}
	records := make([]cat.ResponseRecord, len(responses))
	for i, r := range responses {
		records[i] = cat.ResponseRecord{
			ItemID:         r.ItemID,
			QuestionType:   bank.QuestionType(r.QuestionType),
			IsCorrect:      r.IsCorrect,
			IsDontKnow:     r.IsDontKnow,
			ResponseTimeMs: r.ResponseTimeMs,
			ThetaAfter:     r.ThetaAfter,
			SEAfter:        r.SEAfter,
			Sequence:       r.SequenceIdx,
			At:             r.AnsweredAt,
		}
	}
	return report.Input{
		SessionID: row.ID,
		Theta:     row.FinalTheta,
		SE:        row.FinalSE,
		Reason:    cat.TerminationReason(row.TerminationReason),
		Records:   records,
	}, nil
}

// Results builds the terminal report for a session.
func (m *Manager) Results(ctx context.Context, id string) (*report.Report, error) {
	in, err := m.terminalInput(ctx, id)
	if err != nil {
		return nil, err
	}
	return report.Build(m.bank.Current(), in), nil
}

// StudyPlan builds the post-test study plan for a completed session.
func (m *Manager) StudyPlan(ctx context.Context, id string) (*report.StudyPlan, error) {
	in, err := m.terminalInput(ctx, id)
	if err != nil {
		return nil, err
	}
	return report.BuildStudyPlan(m.bank.Current(), in), nil
}

// Matrix builds the knowledge matrix for a completed session. A
// non-positive sampleSize falls back to the builder's default.
func (m *Manager) Matrix(ctx context.Context, id string, sampleSize int) (*report.Matrix, error) {
	in, err := m.terminalInput(ctx, id)
	if err != nil {
		return nil, err
	}
	return report.BuildMatrix(m.bank.Current(), in.Theta, sampleSize), nil
}

// History returns a user and that user's session digests, oldest
// first.
func (m *Manager) History(ctx context.Context, userID string) (store.User, []store.SessionDigest, error) {
	u, err := m.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.User{}, nil, ErrNotFound
	}
	if err != nil {
		return store.User{}, nil, err
	}
	digests, err := m.store.UserSessionDigests(ctx, userID)
	if err != nil {
		return store.User{}, nil, err
	}
	return u, digests, nil
}
