// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package cat

import (
	"math"

	"github.com/dwkang/lexicat/internal/bank"
)

// POS share ceilings for content balance. A candidate is dropped when
// administering it would push its part-of-speech share past the ceiling
// plus the configured tolerance. Parts of speech without a ceiling are
// unconstrained.
var posShareMax = map[string]float64{
	"NOUN": 0.55,
	"VERB": 0.30,
	"ADJ":  0.20,
}

// posMinSample is how many responses must exist before the POS balance
// constraint applies; shares over tiny denominators are meaningless.
const posMinSample = 5

// tracker accumulates the content-balance counters for one session.
type tracker struct {
	pos       map[string]int
	topic     map[string]int
	types     map[bank.QuestionType]int
	cefr      map[string]int
	loanwords int
	total     int
}

func newTracker() *tracker {
	return &tracker{
		pos:   make(map[string]int),
		topic: make(map[string]int),
		types: make(map[bank.QuestionType]int),
		cefr:  make(map[string]int),
	}
}

func (t *tracker) record(it *bank.Item, qt bank.QuestionType) {
	t.pos[it.POS]++
	t.topic[it.Topic]++
	t.types[qt]++
	t.cefr[it.CEFR]++
	if it.IsLoanword {
		t.loanwords++
	}
	t.total++
}

func (t *tracker) topicOK(topic string, limit int) bool {
	return t.topic[topic] < limit
}

func (t *tracker) posOK(pos string, tolerance float64) bool {
	if t.total < posMinSample {
		return true
	}
	ceiling, constrained := posShareMax[pos]
	if !constrained {
		return true
	}
	share := float64(t.pos[pos]+1) / float64(t.total+1)
	return share <= ceiling+tolerance
}

func (t *tracker) loanwordOK(isLoanword bool, limit int) bool {
	return !isLoanword || t.loanwords < limit
}

// stageTypes returns the question types open at this point of the test:
// receptive types only while the estimate is still coarse, relational
// and contextual forms joining as it stabilizes. Nil means every type.
func stageTypes(completed int) []bank.QuestionType {
	switch {
	case completed < 5:
		return []bank.QuestionType{bank.TypeKoreanMeaning, bank.TypeEnglishDef}
	case completed < 15:
		return []bank.QuestionType{
			bank.TypeKoreanMeaning, bank.TypeEnglishDef,
			bank.TypeSynonym, bank.TypeCloze,
		}
	default:
		return nil
	}
}

// Selection is one selector outcome: a concrete item and the question
// type it will be rendered under.
type Selection struct {
	Item *bank.Item
	Type bank.QuestionType
}

// selectNext runs the selection pipeline for the session's next item:
// content constraints, exposure gate, information ranking, randomized
// top-K, then type assignment. Callers hold the session lock.
func (e *Engine) selectNext(s *Session) (Selection, error) {
	b := e.bank.Current()
	theta := s.selectionTheta()

	allowed := s.allowedTypes()

	strict := func(it *bank.Item) bool {
		if _, dup := s.administeredSet[it.ID]; dup {
			return false
		}
		if !s.tracker.topicOK(it.Topic, e.topicMax) {
			return false
		}
		if !s.tracker.posOK(it.POS, e.posTolerance) {
			return false
		}
		if !s.tracker.loanwordOK(it.IsLoanword, e.loanwordMax) {
			return false
		}
		return supportsAny(b, it.ID, allowed)
	}
	topicOnly := func(it *bank.Item) bool {
		if _, dup := s.administeredSet[it.ID]; dup {
			return false
		}
		if !s.tracker.topicOK(it.Topic, e.topicMax) {
			return false
		}
		return supportsAny(b, it.ID, nil)
	}
	anyLeft := func(it *bank.Item) bool {
		if _, dup := s.administeredSet[it.ID]; dup {
			return false
		}
		return supportsAny(b, it.ID, nil)
	}

	// Constraints relax progressively when the filtered pool is thinner
	// than the randomization window; a test must not die of content
	// balance while usable items remain.
	candidates := collectIDs(b, strict)
	if len(candidates) < e.topK {
		candidates = collectIDs(b, topicOnly)
	}
	if len(candidates) < e.topK {
		candidates = collectIDs(b, anyLeft)
	}
	if len(candidates) == 0 {
		return Selection{}, ErrPoolExhausted
	}

	gated, _ := e.exposure.Gate(candidates)

	eligible := make(map[int]struct{}, len(gated))
	for _, id := range gated {
		eligible[id] = struct{}{}
	}
	ranked := b.RankByInfo(theta, e.topK, func(it *bank.Item) bool {
		_, ok := eligible[it.ID]
		return ok
	})
	if len(ranked) == 0 {
		return Selection{}, ErrPoolExhausted
	}

	pick := ranked[s.rng.Intn(len(ranked))]
	qt := assignType(b, pick, s.Profile.QuestionType, allowed, theta)
	return Selection{Item: pick, Type: qt}, nil
}

func collectIDs(b *bank.Bank, keep func(*bank.Item) bool) []int {
	items := b.Items()
	var ids []int
	for i := range items {
		if keep(&items[i]) {
			ids = append(ids, items[i].ID)
		}
	}
	return ids
}

// supportsAny reports whether the item supports at least one of the
// given types; nil means any capability at all.
func supportsAny(b *bank.Bank, id int, types []bank.QuestionType) bool {
	if types == nil {
		return len(b.SupportedTypes(id)) > 0
	}
	for _, t := range types {
		if b.Supports(id, t) {
			return true
		}
	}
	return false
}

// assignType picks the question type for a selected item. An explicit
// learner preference wins when the item supports it. Otherwise the type
// whose effective difficulty lands closest to the current estimate is
// chosen from the allowed set, falling back to anything the item
// supports; ties break toward the lower type number.
func assignType(b *bank.Bank, it *bank.Item, preferred bank.QuestionType,
	allowed []bank.QuestionType, theta float64) bank.QuestionType {

	if preferred != 0 && b.Supports(it.ID, preferred) {
		return preferred
	}

	pool := allowed
	if pool == nil {
		pool = bank.AllQuestionTypes
	}

	best := bank.QuestionType(0)
	bestDist := math.Inf(1)
	for _, t := range pool {
		if !b.Supports(it.ID, t) {
			continue
		}
		if d := math.Abs(it.EffectiveB(t) - theta); d < bestDist {
			best, bestDist = t, d
		}
	}
	if best != 0 {
		return best
	}

	// The allowed set missed every capability (relaxed candidate);
	// consider everything the item still supports.
	for _, t := range bank.AllQuestionTypes {
		if !b.Supports(it.ID, t) {
			continue
		}
		if d := math.Abs(it.EffectiveB(t) - theta); d < bestDist {
			best, bestDist = t, d
		}
	}
	if best != 0 {
		return best
	}
	return bank.TypeKoreanMeaning
}
