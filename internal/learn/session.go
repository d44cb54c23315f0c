// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package learn runs the goal-based learning loop: each goal carves its
// slice of the item bank by curriculum band, words move through a
// modified SM-2 schedule driven by self-ratings, and card selection
// interleaves due reviews with new words until everything is mastered.
package learn

import (
	"errors"
	"hash/fnv"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/config"
	"github.com/dwkang/lexicat/internal/logging"
)

// minGoalPool guards against over-narrow curriculum filters: a goal
// whose bands yield fewer words than this draws from the whole bank.
const minGoalPool = 100

// Sentinel errors surfaced by the learning engine.
var (
	// ErrGoalComplete means every word in the goal pool is mastered.
	ErrGoalComplete = errors.New("all goal words mastered")

	// ErrUnknownWord is returned for a submission naming a word outside
	// the session's goal pool.
	ErrUnknownWord = errors.New("word not in goal pool")

	// ErrBadRating is returned for a self-rating outside 0..3.
	ErrBadRating = errors.New("self rating out of range")

	// ErrBadType is returned for an invalid question type.
	ErrBadType = errors.New("question type out of range")
)

// Assessment is one append-only history entry for a learned word.
type Assessment struct {
	At           time.Time         `json:"date"`
	Rating       int               `json:"rating"`
	QuestionType bank.QuestionType `json:"question_type"`
	IsCorrect    bool              `json:"is_correct"`
}

// LearnedWord is the per-(session, word) scheduling state.
type LearnedWord struct {
	ItemID         int          `json:"item_id"`
	Word           string       `json:"word"`
	ReviewCount    int          `json:"review_count"`
	CorrectCount   int          `json:"correct_count"`
	EaseFactor     float64      `json:"ease_factor"`
	IntervalDays   int          `json:"interval_days"`
	NextReviewAt   time.Time    `json:"next_review_at"`
	LastReviewedAt time.Time    `json:"last_reviewed_at"`
	IsMastered     bool         `json:"is_mastered"`
	MasteredAt     time.Time    `json:"mastered_at,omitempty"`
	DVKLevel       int          `json:"dvk_level"`
	History        []Assessment `json:"assessment_history"`
}

// Accuracy returns the correct-recall rate over all reviews.
func (w *LearnedWord) Accuracy() float64 {
	if w.ReviewCount == 0 {
		return 0
	}
	return float64(w.CorrectCount) / float64(w.ReviewCount)
}

// everRatedGood reports whether any past self-rating was good or easy.
func (w *LearnedWord) everRatedGood() bool {
	for i := range w.History {
		if w.History[i].Rating >= RatingGood {
			return true
		}
	}
	return false
}

// Card is one issued learning question.
type Card struct {
	ItemID   int            `json:"item_id"`
	Stage    string         `json:"stage"`
	Rendered *bank.Rendered `json:"item"`
}

// GoalProgress is the learner-facing session snapshot.
type GoalProgress struct {
	WordsStudied         int     `json:"words_studied"`
	WordsMastered        int     `json:"words_mastered"`
	TotalReviews         int     `json:"total_reviews"`
	TargetWordCount      int     `json:"target_word_count"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// SubmitResult carries a submission's outcome: the updated word state,
// whether this review crossed the mastery line, the next card (nil once
// the goal is complete), and refreshed progress.
type SubmitResult struct {
	Word          LearnedWord
	NewlyMastered bool
	Complete      bool
	NextCard      *Card
	Progress      GoalProgress
}

// GoalSession is one learning run against a goal pool. All mutation
// goes through Engine methods, which serialize on the session mutex.
type GoalSession struct {
	ID          string
	UserID      string
	GoalID      string
	GoalName    string
	TargetWords int
	StartedAt   time.Time

	mu sync.Mutex

	poolIndex map[string]int32 // display word -> item id
	perm      []int32          // session-seeded issue order for new words
	cursor    int

	words         map[string]*LearnedWord
	wordsStudied  int
	wordsMastered int
	totalReviews  int
	lastActivity  time.Time

	rng *rand.Rand
}

// Progress returns the learner-facing snapshot.
func (s *GoalSession) Progress() GoalProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *GoalSession) progressLocked() GoalProgress {
	pct := 0.0
	if s.TargetWords > 0 {
		pct = float64(s.wordsMastered) / float64(s.TargetWords) * 100
		if pct > 100 {
			pct = 100
		}
	}
	return GoalProgress{
		WordsStudied:         s.wordsStudied,
		WordsMastered:        s.wordsMastered,
		TotalReviews:         s.totalReviews,
		TargetWordCount:      s.TargetWords,
		CompletionPercentage: pct,
	}
}

// LastActivity returns the time of the most recent submission or issue.
func (s *GoalSession) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Touch refreshes the activity clock, keeping a session alive across
// read-only accesses that never reach an Engine method.
func (s *GoalSession) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now().UTC()
}

// PoolSize returns the number of words in the goal pool.
func (s *GoalSession) PoolSize() int {
	return len(s.perm)
}

// WordState returns a copy of one word's scheduling state.
func (s *GoalSession) WordState(word string) (LearnedWord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.words[word]
	if !ok {
		return LearnedWord{}, false
	}
	return *w, true
}

// Words returns copies of every studied word's state, ordered by item
// id. Used by the persistence write-through.
func (s *GoalSession) Words() []LearnedWord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LearnedWord, 0, len(s.words))
	for _, w := range s.words {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Engine drives goal sessions against the published bank. It is safe
// for concurrent use; per-session ordering comes from the session
// mutex.
type Engine struct {
	bank   *bank.Handle
	logger zerolog.Logger

	defaultTarget      int
	masteryMinReviews  int
	masteryAccuracy    float64
	masteryMinInterval int
}

// NewEngine builds a learning engine over the published bank handle.
func NewEngine(cfg config.LearningConfig, h *bank.Handle) *Engine {
	return &Engine{
		bank:               h,
		logger:             logging.WithComponent("learn"),
		defaultTarget:      cfg.DefaultTargetWords,
		masteryMinReviews:  cfg.MasteryMinReviews,
		masteryAccuracy:    cfg.MasteryAccuracy,
		masteryMinInterval: cfg.MasteryMinInterval,
	}
}

// NewSession builds a goal session over the current bank snapshot.
// Blank names and non-positive targets fall back to the track catalog.
// The new-word order and all type sampling are seeded from the session
// id, so identical ids replay identical card sequences.
func (e *Engine) NewSession(id, userID, goalID, goalName string, targetWords int) *GoalSession {
	g := GoalByID(goalID)
	if goalName == "" {
		goalName = g.Name
	}
	if targetWords <= 0 {
		targetWords = g.TargetWords
	}
	if targetWords <= 0 {
		targetWords = e.defaultTarget
	}

	b := e.bank.Current()
	pool := goalPool(b, g)

	h := fnv.New64a()
	h.Write([]byte(id))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	now := time.Now().UTC()
	s := &GoalSession{
		ID:           id,
		UserID:       userID,
		GoalID:       goalID,
		GoalName:     goalName,
		TargetWords:  targetWords,
		StartedAt:    now,
		poolIndex:    make(map[string]int32, len(pool)),
		perm:         make([]int32, 0, len(pool)),
		words:        make(map[string]*LearnedWord),
		lastActivity: now,
		rng:          rng,
	}

	// Duplicate display forms keep the lowest item id so the word key
	// maps to exactly one item.
	for _, itemID := range pool {
		it, ok := b.ByID(int(itemID))
		if !ok {
			continue
		}
		if _, dup := s.poolIndex[it.Word]; dup {
			continue
		}
		s.poolIndex[it.Word] = itemID
		s.perm = append(s.perm, itemID)
	}
	rng.Shuffle(len(s.perm), func(i, j int) { s.perm[i], s.perm[j] = s.perm[j], s.perm[i] })

	e.logger.Info().
		Str("session_id", id).
		Str("goal_id", goalID).
		Int("pool", len(s.perm)).
		Int("target_words", targetWords).
		Msg("goal session started")
	return s
}

// goalPool collects the item ids whose curriculum band belongs to the
// goal, in ascending id order, falling back to the whole bank when the
// filter leaves too few words to sustain a session.
func goalPool(b *bank.Bank, g Goal) []int32 {
	var ids []int32
	for _, band := range g.Curricula {
		for _, it := range b.Select(bank.Filter{Curriculum: band}) {
			ids = append(ids, int32(it.ID))
		}
	}
	if len(ids) < minGoalPool {
		items := b.Items()
		ids = ids[:0]
		for i := range items {
			ids = append(ids, int32(items[i].ID))
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NextCard issues the next card without recording anything.
func (e *Engine) NextCard(s *GoalSession) (*Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.lastActivity = now
	return e.nextLocked(s, now)
}

// Submit records one self-rated card outcome, advances the word's SM-2
// schedule, and issues the next card. Word state is created on first
// touch, so submissions drive the studied count.
func (e *Engine) Submit(s *GoalSession, word string, qt bank.QuestionType, rating int, isCorrect bool) (*SubmitResult, error) {
	if rating < RatingForgot || rating > RatingEasy {
		return nil, ErrBadRating
	}
	if !qt.Valid() {
		return nil, ErrBadType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	itemID, ok := s.poolIndex[word]
	if !ok {
		return nil, ErrUnknownWord
	}

	now := time.Now().UTC()
	w := s.words[word]
	if w == nil {
		w = &LearnedWord{ItemID: int(itemID), Word: word, EaseFactor: easeStart, DVKLevel: 1}
		s.words[word] = w
		s.wordsStudied++
	}

	everGood := w.everRatedGood()
	w.ReviewCount++
	if isCorrect {
		w.CorrectCount++
		if int(qt) > w.DVKLevel {
			w.DVKLevel = int(qt)
		}
	}

	w.IntervalDays, w.EaseFactor = applyRating(w.IntervalDays, w.EaseFactor, rating, everGood)
	w.NextReviewAt = now.Add(time.Duration(w.IntervalDays) * 24 * time.Hour)
	w.LastReviewedAt = now
	w.History = append(w.History, Assessment{At: now, Rating: rating, QuestionType: qt, IsCorrect: isCorrect})

	newly := false
	if !w.IsMastered &&
		w.ReviewCount >= e.masteryMinReviews &&
		w.Accuracy() >= e.masteryAccuracy &&
		w.IntervalDays >= e.masteryMinInterval {
		w.IsMastered = true
		w.MasteredAt = now
		s.wordsMastered++
		newly = true
		e.logger.Info().
			Str("session_id", s.ID).
			Str("word", word).
			Int("reviews", w.ReviewCount).
			Int("interval_days", w.IntervalDays).
			Msg("word mastered")
	}

	s.totalReviews++
	s.lastActivity = now

	res := &SubmitResult{Word: *w, NewlyMastered: newly, Progress: s.progressLocked()}
	next, err := e.nextLocked(s, now)
	if err != nil {
		if errors.Is(err, ErrGoalComplete) {
			res.Complete = true
			return res, nil
		}
		return nil, err
	}
	res.NextCard = next
	return res, nil
}

// nextLocked walks the selection priorities: due reviews first, then an
// unseen word in the session's shuffled order, then the least recently
// reviewed word still unmastered. Callers hold the session lock.
func (e *Engine) nextLocked(s *GoalSession, now time.Time) (*Card, error) {
	b := e.bank.Current()

	// Priority 1: due reviews, earliest first, hardest on ties.
	var due []*LearnedWord
	for _, w := range s.words {
		if !w.IsMastered && !w.NextReviewAt.After(now) {
			due = append(due, w)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		}
		if due[i].EaseFactor != due[j].EaseFactor {
			return due[i].EaseFactor < due[j].EaseFactor
		}
		return due[i].ItemID < due[j].ItemID
	})
	for _, w := range due {
		if c := e.cardFor(s, b, w.ItemID, e.stageOf(w)); c != nil {
			return c, nil
		}
	}

	// Priority 2: a new word in the session-seeded order. A word that
	// renders under no type at all is skipped for good.
	for s.cursor < len(s.perm) {
		itemID := int(s.perm[s.cursor])
		it, ok := b.ByID(itemID)
		if !ok {
			s.cursor++
			continue
		}
		if _, studied := s.words[it.Word]; studied {
			s.cursor++
			continue
		}
		if c := e.cardFor(s, b, itemID, StageFirstExposure); c != nil {
			return c, nil
		}
		s.cursor++
	}

	// Priority 3: the longest-unreviewed word still in play.
	var stale []*LearnedWord
	for _, w := range s.words {
		if !w.IsMastered {
			stale = append(stale, w)
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		if !stale[i].LastReviewedAt.Equal(stale[j].LastReviewedAt) {
			return stale[i].LastReviewedAt.Before(stale[j].LastReviewedAt)
		}
		return stale[i].ItemID < stale[j].ItemID
	})
	for _, w := range stale {
		if c := e.cardFor(s, b, w.ItemID, e.stageOf(w)); c != nil {
			return c, nil
		}
	}

	return nil, ErrGoalComplete
}

// stageOf classifies a studied word. Words past the mastery review and
// accuracy thresholds get the mastery-check mix even while their
// interval still keeps them short of mastered.
func (e *Engine) stageOf(w *LearnedWord) string {
	if w.ReviewCount == 0 {
		return StageFirstExposure
	}
	if w.ReviewCount >= e.masteryMinReviews && w.Accuracy() >= e.masteryAccuracy {
		return StageMasteryCheck
	}
	return StageReview
}

// cardFor renders one card for the item at the given stage. The type is
// sampled from the goal's stage mix; an unsupported draw falls back
// through the mix by descending weight, then to any renderable type.
// Returns nil when nothing renders.
func (e *Engine) cardFor(s *GoalSession, b *bank.Bank, itemID int, stage string) *Card {
	dist := distributionFor(s.GoalID, stage)

	try := make([]bank.QuestionType, 0, len(bank.AllQuestionTypes))
	try = append(try, sampleType(s.rng, dist))
	for _, t := range fallbackOrder(dist) {
		if t != try[0] {
			try = append(try, t)
		}
	}
	for _, t := range bank.AllQuestionTypes {
		known := false
		for _, u := range try {
			if u == t {
				known = true
				break
			}
		}
		if !known {
			try = append(try, t)
		}
	}

	for _, t := range try {
		if !b.Supports(itemID, t) {
			continue
		}
		r, err := b.Render(itemID, t, bank.RenderSeed(s.ID, itemID, t))
		if err != nil {
			e.logger.Warn().
				Err(err).
				Int("item_id", itemID).
				Str("question_type", t.String()).
				Msg("card render failed, trying next type")
			continue
		}
		return &Card{ItemID: itemID, Stage: stage, Rendered: r}
	}
	return nil
}
