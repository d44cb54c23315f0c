// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package cat runs adaptive vocabulary tests: each session keeps a
// posterior over learner ability, and the engine alternates between
// folding responses into that posterior and picking the next most
// informative item under content and exposure constraints.
package cat

import (
	"errors"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/config"
	"github.com/dwkang/lexicat/internal/exposure"
	"github.com/dwkang/lexicat/internal/irt"
	"github.com/dwkang/lexicat/internal/logging"
)

// State is the lifecycle phase of a test session.
type State string

const (
	StateInitialized State = "initialized"
	StateInProgress  State = "in_progress"
	StateTerminated  State = "terminated"
)

// TerminationReason records why a session ended.
type TerminationReason string

const (
	ReasonMaxItems      TerminationReason = "max_items"
	ReasonSEThreshold   TerminationReason = "se_threshold"
	ReasonConvergence   TerminationReason = "convergence"
	ReasonPoolExhausted TerminationReason = "pool_exhausted"
	ReasonExpired       TerminationReason = "expired"
	ReasonCorrupted     TerminationReason = "corrupted"
)

// posteriorTolerance is the allowed drift of the posterior integral from
// exactly one. Anything past it means the numeric state is no longer
// trustworthy and the session must not keep scoring.
const posteriorTolerance = 1e-6

// maxIssueAttempts bounds the select-render retry loop. Every failed
// render revokes the broken capability, so each retry sees a strictly
// smaller pool and the loop cannot spin on one item.
const maxIssueAttempts = 5

// ResponseRecord is one committed answer with the estimate snapshots
// taken around it. Params holds the scoring parameters that were applied,
// so a recorded session can be replayed bit-for-bit even after the bank
// has been recalibrated.
type ResponseRecord struct {
	ItemID         int               `json:"item_id"`
	QuestionType   bank.QuestionType `json:"question_type"`
	IsCorrect      bool              `json:"is_correct"`
	IsDontKnow     bool              `json:"is_dont_know"`
	ResponseTimeMs int               `json:"response_time_ms"`
	Options        []string          `json:"options"`
	ThetaBefore    float64           `json:"theta_before"`
	SEBefore       float64           `json:"se_before"`
	ThetaAfter     float64           `json:"theta_after"`
	SEAfter        float64           `json:"se_after"`
	Params         irt.Params        `json:"params"`
	Sequence       int               `json:"sequence_idx"`
	At             time.Time         `json:"answered_at"`
}

// Progress is the learner-facing view of a running session.
type Progress struct {
	ItemsCompleted int     `json:"items_completed"`
	TotalCorrect   int     `json:"total_correct"`
	Accuracy       float64 `json:"accuracy"`
	CurrentTheta   float64 `json:"current_theta"`
	CurrentSE      float64 `json:"current_se"`
	IsComplete     bool    `json:"is_complete"`
}

// SubmitResult is what one committed response produced: the record, the
// updated progress, and either the next rendered item or the
// termination verdict.
type SubmitResult struct {
	Record     ResponseRecord
	Progress   Progress
	Next       *bank.Rendered
	Terminated bool
	Reason     TerminationReason
}

type pendingItem struct {
	sel      Selection
	rendered *bank.Rendered
}

// Session is one adaptive test in flight. All mutation goes through
// Engine methods, which serialize on the session mutex; the exported
// accessors take the same lock for consistent reads.
type Session struct {
	ID      string
	UserID  string
	Profile Profile

	// StartedAt is set once at creation and never changes.
	StartedAt time.Time

	mu sync.Mutex

	state  State
	reason TerminationReason

	posterior    *irt.Posterior
	initialTheta float64
	currentTheta float64
	currentSE    float64

	administered    []int
	administeredSet map[int]struct{}
	responses       []ResponseRecord
	pending         *pendingItem
	tracker         *tracker
	thetaHistory    []float64

	rng *rand.Rand

	lastActivity time.Time
}

// NewSession builds a session in the initialized state. The selection
// RNG is seeded from the session id, so reruns with the same id walk
// the same randomized choices.
func NewSession(id, userID string, p Profile) *Session {
	post := irt.NewPosterior()
	theta0 := p.InitialTheta()
	now := time.Now().UTC()

	h := fnv.New64a()
	h.Write([]byte(id))

	return &Session{
		ID:              id,
		UserID:          userID,
		Profile:         p,
		StartedAt:       now,
		state:           StateInitialized,
		posterior:       post,
		initialTheta:    theta0,
		currentTheta:    theta0,
		currentSE:       post.SD(),
		administeredSet: make(map[int]struct{}),
		tracker:         newTracker(),
		rng:             rand.New(rand.NewSource(int64(h.Sum64()))),
		lastActivity:    now,
	}
}

// selectionTheta is the ability estimate selection targets. Before the
// first response it is the profile-derived starting point; afterwards
// the posterior mean, so the profile biases only the opening item.
func (s *Session) selectionTheta() float64 {
	if len(s.responses) == 0 {
		return s.initialTheta
	}
	return s.currentTheta
}

// allowedTypes returns the question types selection may assign right
// now. An explicit profile preference pins the whole test to that type;
// otherwise the warm-up progression applies. Nil means unrestricted.
func (s *Session) allowedTypes() []bank.QuestionType {
	if s.Profile.QuestionType != 0 {
		return []bank.QuestionType{s.Profile.QuestionType}
	}
	return stageTypes(len(s.responses))
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reason returns the termination reason, empty while the session runs.
func (s *Session) Reason() TerminationReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Theta returns the current EAP ability estimate.
func (s *Session) Theta() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTheta
}

// SE returns the current posterior standard error.
func (s *Session) SE() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSE
}

// InitialTheta returns the profile-derived starting estimate.
func (s *Session) InitialTheta() float64 {
	return s.initialTheta
}

// LastActivity returns the time of the most recent state change.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Touch refreshes the activity clock, keeping a session alive across
// read-only accesses that never reach an Engine method.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now().UTC()
}

// Responses returns a copy of the committed response records in order.
func (s *Session) Responses() []ResponseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ResponseRecord, len(s.responses))
	copy(out, s.responses)
	return out
}

// ThetaHistory returns a copy of the estimate after each response.
func (s *Session) ThetaHistory() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.thetaHistory))
	copy(out, s.thetaHistory)
	return out
}

// Administered returns a copy of the issued item ids in issue order.
func (s *Session) Administered() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.administered))
	copy(out, s.administered)
	return out
}

// Pending returns the currently issued, unanswered item, or nil.
func (s *Session) Pending() *bank.Rendered {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	return s.pending.rendered
}

// Progress returns the learner-facing progress snapshot.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *Session) progressLocked() Progress {
	n := len(s.responses)
	correct := 0
	for i := range s.responses {
		if s.responses[i].IsCorrect {
			correct++
		}
	}
	acc := 0.0
	if n > 0 {
		acc = float64(correct) / float64(n)
	}
	return Progress{
		ItemsCompleted: n,
		TotalCorrect:   correct,
		Accuracy:       acc,
		CurrentTheta:   s.currentTheta,
		CurrentSE:      s.currentSE,
		IsComplete:     s.state == StateTerminated,
	}
}

// Engine drives sessions against a published bank snapshot and the
// shared exposure controller. It is safe for concurrent use; per-session
// ordering comes from the session mutex.
type Engine struct {
	bank     *bank.Handle
	exposure *exposure.Controller
	logger   zerolog.Logger

	minItems           int
	maxItems           int
	seThreshold        float64
	convergenceWindow  int
	convergenceEpsilon float64
	topK               int
	topicMax           int
	posTolerance       float64
	loanwordMax        int
	sessionTTL         time.Duration
}

// NewEngine wires a test engine from configuration, a bank handle, and
// the exposure controller.
func NewEngine(cfg config.CATConfig, bankCfg config.BankConfig, h *bank.Handle, exp *exposure.Controller) *Engine {
	return &Engine{
		bank:               h,
		exposure:           exp,
		logger:             logging.WithComponent("cat"),
		minItems:           cfg.MinItems,
		maxItems:           cfg.MaxItems,
		seThreshold:        cfg.SEThreshold,
		convergenceWindow:  cfg.ConvergenceWindow,
		convergenceEpsilon: cfg.ConvergenceEpsilon,
		topK:               cfg.TopK,
		topicMax:           cfg.TopicMax,
		posTolerance:       cfg.POSTolerance,
		loanwordMax:        bankCfg.LoanwordMaxPerTest,
		sessionTTL:         cfg.SessionTTL,
	}
}

// SessionTTL returns the idle lifetime after which sessions expire.
func (e *Engine) SessionTTL() time.Duration { return e.sessionTTL }

// Start moves an initialized session into progress and issues its first
// item. Calling Start on a session that already has a pending item just
// returns that item again.
func (e *Engine) Start(s *Session) (*bank.Rendered, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateTerminated:
		return nil, ErrTerminated
	case StateInProgress:
		if s.pending != nil {
			return s.pending.rendered, nil
		}
		return nil, ErrPoolExhausted
	}

	s.state = StateInProgress
	e.exposure.SessionStarted()
	s.lastActivity = time.Now().UTC()

	r, err := e.issueNext(s)
	if err != nil {
		return nil, err
	}
	e.logger.Debug().
		Str("session_id", s.ID).
		Float64("initial_theta", s.initialTheta).
		Int("item_id", r.ItemID).
		Msg("session started")
	return r, nil
}

// Submit commits one answer for the pending item: the posterior absorbs
// it, the estimate snapshots are recorded, the stopping rules run, and
// unless the test ended the next item is issued. A resubmission of an
// already answered item returns the committed record inside a
// DuplicateResponseError instead of mutating anything.
func (e *Engine) Submit(s *Session, itemID int, isCorrect, isDontKnow bool, responseTimeMs int) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminated {
		return nil, ErrTerminated
	}
	if s.pending == nil || s.pending.sel.Item.ID != itemID {
		for i := range s.responses {
			if s.responses[i].ItemID == itemID {
				return nil, &DuplicateResponseError{Committed: s.responses[i]}
			}
		}
		return nil, ErrOutOfOrder
	}

	it := s.pending.sel.Item
	qt := s.pending.sel.Type
	options := s.pending.rendered.Options
	if isDontKnow {
		isCorrect = false
	}

	prm := e.bank.Current().ResponseParams(it, qt)
	thetaBefore := s.currentTheta
	seBefore := s.currentSE

	s.posterior.Update(prm, isCorrect, isDontKnow)

	integral := s.posterior.Integral()
	mean := s.posterior.Mean()
	if math.IsNaN(integral) || math.IsNaN(mean) || math.Abs(integral-1) > posteriorTolerance {
		s.state = StateTerminated
		s.reason = ReasonCorrupted
		e.logger.Error().
			Str("session_id", s.ID).
			Float64("integral", integral).
			Msg("posterior mass left the unit integral, terminating session")
		return nil, ErrCorrupted
	}

	s.currentTheta = mean
	s.currentSE = s.posterior.SD()
	s.thetaHistory = append(s.thetaHistory, mean)

	rec := ResponseRecord{
		ItemID:         it.ID,
		QuestionType:   qt,
		IsCorrect:      isCorrect,
		IsDontKnow:     isDontKnow,
		ResponseTimeMs: responseTimeMs,
		Options:        options,
		ThetaBefore:    thetaBefore,
		SEBefore:       seBefore,
		ThetaAfter:     s.currentTheta,
		SEAfter:        s.currentSE,
		Params:         prm,
		Sequence:       len(s.responses),
		At:             time.Now().UTC(),
	}
	s.responses = append(s.responses, rec)
	s.tracker.record(it, qt)
	s.pending = nil
	s.lastActivity = rec.At

	res := &SubmitResult{Record: rec}

	if reason, stop := e.shouldStop(s); stop {
		s.state = StateTerminated
		s.reason = reason
		res.Terminated = true
		res.Reason = reason
		res.Progress = s.progressLocked()
		e.logger.Info().
			Str("session_id", s.ID).
			Str("reason", string(reason)).
			Int("items", len(s.responses)).
			Float64("theta", s.currentTheta).
			Float64("se", s.currentSE).
			Msg("session terminated")
		return res, nil
	}

	next, err := e.issueNext(s)
	if errors.Is(err, ErrPoolExhausted) {
		// Running dry mid-test is a clean ending, not a failure: the
		// learner gets a report from what was answered.
		s.state = StateTerminated
		s.reason = ReasonPoolExhausted
		res.Terminated = true
		res.Reason = ReasonPoolExhausted
		res.Progress = s.progressLocked()
		e.logger.Warn().
			Str("session_id", s.ID).
			Int("items", len(s.responses)).
			Msg("item pool exhausted, terminating session")
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	res.Next = next
	res.Progress = s.progressLocked()
	return res, nil
}

// Expire terminates an idle session. It reports whether this call did
// the transition, so sweepers can archive each session exactly once.
func (e *Engine) Expire(s *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminated {
		return false
	}
	s.state = StateTerminated
	s.reason = ReasonExpired
	s.pending = nil
	e.logger.Info().
		Str("session_id", s.ID).
		Int("items", len(s.responses)).
		Msg("idle session expired")
	return true
}

// issueNext selects, renders, and books the next item. Render failures
// revoke the broken capability inside the bank, so each retry works
// with a smaller pool. Callers hold the session lock.
func (e *Engine) issueNext(s *Session) (*bank.Rendered, error) {
	var lastErr error
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		sel, err := e.selectNext(s)
		if err != nil {
			return nil, err
		}
		seed := bank.RenderSeed(s.ID, sel.Item.ID, sel.Type)
		r, err := e.bank.Current().Render(sel.Item.ID, sel.Type, seed)
		if err != nil {
			lastErr = err
			e.logger.Warn().
				Err(err).
				Int("item_id", sel.Item.ID).
				Int("question_type", int(sel.Type)).
				Msg("render failed, capability revoked, reselecting")
			continue
		}
		s.pending = &pendingItem{sel: sel, rendered: r}
		s.administered = append(s.administered, sel.Item.ID)
		s.administeredSet[sel.Item.ID] = struct{}{}
		e.exposure.RecordAdministration(sel.Item.ID)
		return r, nil
	}
	return nil, lastErr
}
