// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package bank

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"gonum.org/v1/gonum/stat"

	"github.com/dwkang/lexicat/internal/irt"
	"github.com/dwkang/lexicat/internal/logging"
)

// Model selects how response probabilities are evaluated.
type Model int

const (
	// Model2PL ignores the guessing asymptote (c = 0).
	Model2PL Model = iota
	// Model3PL applies the per-rendering-mode guessing asymptote. Enabled
	// once enough sessions have accumulated to support it.
	Model3PL
)

func (m Model) String() string {
	if m == Model3PL {
		return "3PL"
	}
	return "2PL"
}

// Item is one bank entry: a word plus its response model parameters and
// content-balance attributes. Items are immutable; calibration produces a
// whole new bank version instead of mutating in place.
type Item struct {
	ID         int
	Word       string
	POS        string
	CEFR       string
	Curriculum string
	Topic      string // consolidated category
	FreqRank   int
	A          float64 // discrimination
	B          float64 // base difficulty; per-type offset applied at use
	IsLoanword bool

	meta *Word
}

// EffectiveB returns the difficulty of this item when asked under the
// given question type.
func (it *Item) EffectiveB(t QuestionType) float64 {
	return it.B + t.DifficultyOffset()
}

// Meaning returns the Korean gloss of the underlying word.
func (it *Item) Meaning() string {
	return it.meta.MeaningKo
}

// adjacency holds graph neighbors resolved to item ids. Built once at
// load; ids are always valid indexes into the item arena.
type adjacency struct {
	synonyms []int32
	antonyms []int32
	siblings []int32 // items sharing at least one hypernym
}

// Bank is the in-memory item index. All lookup structures are immutable
// after Build; the only mutable state is the per-item capability mask,
// which can only lose bits (an item observed to be unrenderable under a
// type is excluded from that type's candidate sets from then on).
type Bank struct {
	version int
	model   Model

	words []Word
	items []Item

	byWord       map[string]int32 // lowercased lemma -> id
	byTopic      map[string][]int32
	byCEFR       map[string][]int32
	byPOS        map[string][]int32
	byCurriculum map[string][]int32

	adj  []adjacency
	caps []atomic.Uint32
}

// Build constructs a bank from cleaned vocabulary words. Item ids are the
// positions in the input slice.
func Build(words []Word, model Model) (*Bank, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("empty vocabulary")
	}

	b := &Bank{
		version:      1,
		model:        model,
		words:        words,
		items:        make([]Item, len(words)),
		byWord:       make(map[string]int32, len(words)),
		byTopic:      make(map[string][]int32),
		byCEFR:       make(map[string][]int32),
		byPOS:        make(map[string][]int32),
		byCurriculum: make(map[string][]int32),
		adj:          make([]adjacency, len(words)),
		caps:         make([]atomic.Uint32, len(words)),
	}

	total := len(words)
	for i := range words {
		w := &b.words[i]
		id := int32(i)
		b.items[i] = Item{
			ID:         i,
			Word:       w.Display,
			POS:        w.POS,
			CEFR:       w.CEFR,
			Curriculum: w.Curriculum,
			Topic:      MapTopic(w.Topic),
			FreqRank:   w.FreqRank,
			A:          InitialDiscrimination(w),
			B:          InitialDifficulty(w, total),
			IsLoanword: w.IsLoanword,
			meta:       w,
		}

		lower := strings.ToLower(w.Display)
		if _, dup := b.byWord[lower]; !dup {
			b.byWord[lower] = id
		}
		b.byTopic[b.items[i].Topic] = append(b.byTopic[b.items[i].Topic], id)
		b.byCEFR[w.CEFR] = append(b.byCEFR[w.CEFR], id)
		b.byPOS[w.POS] = append(b.byPOS[w.POS], id)
		b.byCurriculum[w.Curriculum] = append(b.byCurriculum[w.Curriculum], id)
	}

	b.buildAdjacency()

	for i := range b.items {
		b.caps[i].Store(metadataCaps(&b.words[i]))
	}

	logger := logging.WithComponent("bank")
	logger.Info().
		Int("items", len(b.items)).
		Str("model", model.String()).
		Int("version", b.version).
		Msg("Item bank built")
	return b, nil
}

// Load reads the vocabulary database and builds a bank from it.
func Load(path string, model Model) (*Bank, error) {
	words, err := LoadTSV(path)
	if err != nil {
		return nil, err
	}
	return Build(words, model)
}

func (b *Bank) buildAdjacency() {
	// Hypernym groups: every pair of items sharing a hypernym string are
	// semantic siblings.
	hypGroups := make(map[string][]int32)
	for i := range b.words {
		for _, h := range b.words[i].Hypernyms {
			key := strings.ToLower(strings.TrimSpace(h))
			if key != "" {
				hypGroups[key] = append(hypGroups[key], int32(i))
			}
		}
	}

	for i := range b.words {
		w := &b.words[i]
		b.adj[i].synonyms = b.resolveLemmas(w.Synonyms, int32(i))
		b.adj[i].antonyms = b.resolveLemmas(w.Antonyms, int32(i))

		seen := map[int32]struct{}{int32(i): {}}
		var sibs []int32
		for _, h := range w.Hypernyms {
			key := strings.ToLower(strings.TrimSpace(h))
			for _, other := range hypGroups[key] {
				if _, dup := seen[other]; !dup {
					seen[other] = struct{}{}
					sibs = append(sibs, other)
				}
			}
		}
		sort.Slice(sibs, func(x, y int) bool { return sibs[x] < sibs[y] })
		b.adj[i].siblings = sibs
	}
}

// resolveLemmas maps lemma strings to item ids, dropping self references
// and lemmas absent from the bank.
func (b *Bank) resolveLemmas(lemmas []string, self int32) []int32 {
	var ids []int32
	for _, l := range lemmas {
		id, ok := b.byWord[strings.ToLower(strings.TrimSpace(l))]
		if ok && id != self {
			ids = append(ids, id)
		}
	}
	return ids
}

func typeBit(t QuestionType) uint32 {
	return 1 << uint(t-1) //nolint:gosec // t is 1..6 by construction
}

// metadataCaps derives the initial capability mask from word metadata.
// Loanwords never get meaning-recognition types: their Korean gloss is a
// transliteration and answers itself.
func metadataCaps(w *Word) uint32 {
	var m uint32
	if w.MeaningKo != "" && !w.IsLoanword {
		m |= typeBit(TypeKoreanMeaning)
	}
	if w.DefinitionEn != "" && !w.IsLoanword {
		m |= typeBit(TypeEnglishDef)
	}
	if len(w.Synonyms) > 0 {
		m |= typeBit(TypeSynonym)
	}
	if len(w.Antonyms) > 0 {
		m |= typeBit(TypeAntonym)
	}
	if clozeSource(w) != "" {
		m |= typeBit(TypeCloze)
	}
	if len(w.Collocations) > 0 {
		m |= typeBit(TypeCollocation)
	}
	return m
}

// Version identifies this bank build; calibration bumps it on publish.
func (b *Bank) Version() int { return b.version }

// Model returns the active response model.
func (b *Bank) Model() Model { return b.model }

// Size returns the number of items.
func (b *Bank) Size() int { return len(b.items) }

// ByID returns the item with the given id.
func (b *Bank) ByID(id int) (*Item, bool) {
	if id < 0 || id >= len(b.items) {
		return nil, false
	}
	return &b.items[id], true
}

// ByWord returns the item for a lemma, case-insensitively.
func (b *Bank) ByWord(lemma string) (*Item, bool) {
	id, ok := b.byWord[strings.ToLower(lemma)]
	if !ok {
		return nil, false
	}
	return &b.items[id], true
}

// Items returns the full item arena. Callers must not modify it.
func (b *Bank) Items() []Item { return b.items }

// Supports reports whether the item can currently be rendered under the
// given question type.
func (b *Bank) Supports(id int, t QuestionType) bool {
	if id < 0 || id >= len(b.caps) || !t.Valid() {
		return false
	}
	return b.caps[id].Load()&typeBit(t) != 0
}

// SupportedTypes returns the question types currently available for an
// item, in ascending order.
func (b *Bank) SupportedTypes(id int) []QuestionType {
	var out []QuestionType
	for _, t := range AllQuestionTypes {
		if b.Supports(id, t) {
			out = append(out, t)
		}
	}
	return out
}

// markUnrenderable clears a capability bit after a failed render. The mask
// only ever loses bits, so a bare CAS loop is sufficient.
func (b *Bank) markUnrenderable(id int, t QuestionType) {
	if id < 0 || id >= len(b.caps) {
		return
	}
	bit := typeBit(t)
	for {
		old := b.caps[id].Load()
		if old&bit == 0 {
			return
		}
		if b.caps[id].CompareAndSwap(old, old&^bit) {
			logger := logging.WithComponent("bank")
			logger.Debug().
				Int("item_id", id).
				Str("question_type", t.String()).
				Msg("Item marked unrenderable for type")
			return
		}
	}
}

// ResponseParams returns the IRT parameters used to score a response on
// this item under the given type, honoring the active model.
func (b *Bank) ResponseParams(it *Item, t QuestionType) irt.Params {
	c := 0.0
	if b.model == Model3PL {
		c = t.GuessingC()
	}
	return irt.Params{A: it.A, B: it.EffectiveB(t), C: c}
}

// Filter narrows enumeration. Zero values match everything.
type Filter struct {
	Topic      string
	POS        string
	CEFR       string
	Curriculum string
	Type       QuestionType // require capability when non-zero
}

// Select returns the items matching the filter, ordered by ascending id.
func (b *Bank) Select(f Filter) []*Item {
	// Start from the most selective index available.
	var seed []int32
	switch {
	case f.Topic != "":
		seed = b.byTopic[f.Topic]
	case f.Curriculum != "":
		seed = b.byCurriculum[f.Curriculum]
	case f.CEFR != "":
		seed = b.byCEFR[f.CEFR]
	case f.POS != "":
		seed = b.byPOS[f.POS]
	}

	match := func(it *Item) bool {
		if f.Topic != "" && it.Topic != f.Topic {
			return false
		}
		if f.POS != "" && it.POS != f.POS {
			return false
		}
		if f.CEFR != "" && it.CEFR != f.CEFR {
			return false
		}
		if f.Curriculum != "" && it.Curriculum != f.Curriculum {
			return false
		}
		if f.Type != 0 && !b.Supports(it.ID, f.Type) {
			return false
		}
		return true
	}

	var out []*Item
	if seed != nil {
		for _, id := range seed {
			if it := &b.items[id]; match(it) {
				out = append(out, it)
			}
		}
		return out
	}
	for i := range b.items {
		if it := &b.items[i]; match(it) {
			out = append(out, it)
		}
	}
	return out
}

// RankByInfo returns up to n items by descending 2PL Fisher information at
// theta, among items passing the eligible predicate. Ties break by
// ascending id so ranking is reproducible.
func (b *Bank) RankByInfo(theta float64, n int, eligible func(*Item) bool) []*Item {
	type scored struct {
		info float64
		id   int
	}
	var cands []scored
	for i := range b.items {
		it := &b.items[i]
		if eligible != nil && !eligible(it) {
			continue
		}
		info := irt.FisherInfo(theta, irt.Params{A: it.A, B: it.B})
		cands = append(cands, scored{info: info, id: i})
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].info != cands[j].info {
			return cands[i].info > cands[j].info
		}
		return cands[i].id < cands[j].id
	})

	if n > len(cands) {
		n = len(cands)
	}
	out := make([]*Item, 0, n)
	for _, c := range cands[:n] {
		out = append(out, &b.items[c.id])
	}
	return out
}

// SynonymNeighbors returns bank items that are synonyms of the given item.
func (b *Bank) SynonymNeighbors(id int) []*Item {
	if id < 0 || id >= len(b.adj) {
		return nil
	}
	return b.resolveIDs(b.adj[id].synonyms)
}

// AntonymNeighbors returns bank items that are antonyms of the given item.
func (b *Bank) AntonymNeighbors(id int) []*Item {
	if id < 0 || id >= len(b.adj) {
		return nil
	}
	return b.resolveIDs(b.adj[id].antonyms)
}

// SiblingNeighbors returns items sharing a hypernym with the given item.
func (b *Bank) SiblingNeighbors(id int) []*Item {
	if id < 0 || id >= len(b.adj) {
		return nil
	}
	return b.resolveIDs(b.adj[id].siblings)
}

func (b *Bank) resolveIDs(ids []int32) []*Item {
	out := make([]*Item, 0, len(ids))
	for _, nid := range ids {
		out = append(out, &b.items[nid])
	}
	return out
}

// ItemParams is a calibrated (a, b) pair for one item.
type ItemParams struct {
	A float64
	B float64
}

// WithParams returns a new bank version carrying updated parameters for
// the given items and possibly a new response model. Lookup structures and
// word metadata are shared with the receiver; capability masks carry over.
func (b *Bank) WithParams(updates map[int]ItemParams, model Model) *Bank {
	nb := &Bank{
		version:      b.version + 1,
		model:        model,
		words:        b.words,
		items:        make([]Item, len(b.items)),
		byWord:       b.byWord,
		byTopic:      b.byTopic,
		byCEFR:       b.byCEFR,
		byPOS:        b.byPOS,
		byCurriculum: b.byCurriculum,
		adj:          b.adj,
		caps:         make([]atomic.Uint32, len(b.caps)),
	}
	copy(nb.items, b.items)
	for i := range nb.caps {
		nb.caps[i].Store(b.caps[i].Load())
	}
	for id, p := range updates {
		if id < 0 || id >= len(nb.items) {
			continue
		}
		nb.items[id].A = p.A
		nb.items[id].B = p.B
	}
	return nb
}

// Handle publishes bank versions atomically. Readers always observe one
// consistent version; calibration swaps in a replacement with Publish.
type Handle struct {
	ptr atomic.Pointer[Bank]
}

// NewHandle returns a handle serving the given initial bank.
func NewHandle(b *Bank) *Handle {
	h := &Handle{}
	h.ptr.Store(b)
	return h
}

// Current returns the bank version being served.
func (h *Handle) Current() *Bank { return h.ptr.Load() }

// Publish atomically replaces the served bank.
func (h *Handle) Publish(b *Bank) {
	old := h.ptr.Swap(b)
	logger := logging.WithComponent("bank")
	logger.Info().
		Int("old_version", old.Version()).
		Int("new_version", b.Version()).
		Str("model", b.Model().String()).
		Msg("Bank version published")
}

// Stats summarizes the bank for the operations surface.
type Stats struct {
	Items        int            `json:"items"`
	Version      int            `json:"version"`
	Model        string         `json:"model"`
	ByCEFR       map[string]int `json:"by_cefr"`
	ByPOS        map[string]int `json:"by_pos"`
	ByCurriculum map[string]int `json:"by_curriculum"`
	WithSynonyms int            `json:"with_synonyms"`
	WithAntonyms int            `json:"with_antonyms"`
	WithGSE      int            `json:"with_gse"`
	WithSentence int            `json:"with_sentences"`
	Loanwords    int            `json:"loanwords"`

	BMean   float64 `json:"b_mean"`
	BStd    float64 `json:"b_std"`
	BMin    float64 `json:"b_min"`
	BMax    float64 `json:"b_max"`
	BMedian float64 `json:"b_median"`
	AMean   float64 `json:"a_mean"`
	AStd    float64 `json:"a_std"`
	AMin    float64 `json:"a_min"`
	AMax    float64 `json:"a_max"`
}

// Stats computes summary statistics over the current items.
func (b *Bank) Stats() Stats {
	s := Stats{
		Items:        len(b.items),
		Version:      b.version,
		Model:        b.model.String(),
		ByCEFR:       make(map[string]int),
		ByPOS:        make(map[string]int),
		ByCurriculum: make(map[string]int),
	}

	bs := make([]float64, 0, len(b.items))
	as := make([]float64, 0, len(b.items))
	for i := range b.items {
		it := &b.items[i]
		s.ByCEFR[it.CEFR]++
		s.ByPOS[it.POS]++
		s.ByCurriculum[it.Curriculum]++
		if len(it.meta.Synonyms) > 0 {
			s.WithSynonyms++
		}
		if len(it.meta.Antonyms) > 0 {
			s.WithAntonyms++
		}
		if it.meta.GSE > 0 {
			s.WithGSE++
		}
		if it.meta.Sentence1 != "" {
			s.WithSentence++
		}
		if it.IsLoanword {
			s.Loanwords++
		}
		bs = append(bs, it.B)
		as = append(as, it.A)
	}

	sort.Float64s(bs)
	sort.Float64s(as)
	s.BMean = stat.Mean(bs, nil)
	s.BStd = stat.StdDev(bs, nil)
	s.BMin, s.BMax = bs[0], bs[len(bs)-1]
	s.BMedian = stat.Quantile(0.5, stat.Empirical, bs, nil)
	s.AMean = stat.Mean(as, nil)
	s.AStd = stat.StdDev(as, nil)
	s.AMin, s.AMax = as[0], as[len(as)-1]

	return s
}
