// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package bank

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
)

// Rendered is an item projected into a concrete question. Never persisted;
// regenerated deterministically from (item id, question type, seed).
type Rendered struct {
	ItemID        int          `json:"item_id"`
	Word          string       `json:"word"`
	QuestionType  QuestionType `json:"question_type"`
	Stem          string       `json:"stem"`
	CorrectAnswer string       `json:"correct_answer"`
	Distractors   []string     `json:"distractors"`
	Options       []string     `json:"options"`
	POS           string       `json:"pos"`
	CEFR          string       `json:"cefr"`
	Explanation   string       `json:"explanation,omitempty"`
}

// RenderSeed derives the deterministic rendering seed for an item within a
// session. Same session, item, and type always produce the same question.
func RenderSeed(sessionID string, itemID int, t QuestionType) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d:%d", sessionID, itemID, t) //nolint:errcheck // hash writes cannot fail
	return int64(h.Sum64())                          //nolint:gosec // deliberate wraparound
}

// Render produces a concrete question for the item under the given type.
// A failure to assemble enough distractors marks the item unrenderable for
// that type, which removes it from future candidate sets.
func (b *Bank) Render(id int, t QuestionType, seed int64) (*Rendered, error) {
	it, ok := b.ByID(id)
	if !ok {
		return nil, fmt.Errorf("render: unknown item %d", id)
	}
	if !t.Valid() {
		return nil, fmt.Errorf("render: invalid question type %d", int(t))
	}
	if !b.Supports(id, t) {
		return nil, fmt.Errorf("render: item %d does not support type %s", id, t)
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic rendering, not security
	w := it.meta

	var stem, correct string
	var distractors []string

	switch t {
	case TypeKoreanMeaning:
		correct = w.MeaningKo
		distractors = b.distractorTexts(it, t, correct, rng)
		stem = fmt.Sprintf("다음 단어 '%s'의 뜻으로 가장 알맞은 것을 고르세요.", w.Display)

	case TypeEnglishDef:
		correct = w.DefinitionEn
		distractors = b.distractorTexts(it, t, correct, rng)
		stem = fmt.Sprintf("Choose the correct English definition of '%s'.", w.Display)

	case TypeSynonym:
		correct = w.Synonyms[rng.Intn(len(w.Synonyms))]
		distractors = b.distractorTexts(it, t, correct, rng)
		stem = fmt.Sprintf("다음 단어 '%s'와 의미가 가장 비슷한 유의어를 고르세요.", w.Display)

	case TypeAntonym:
		correct = w.Antonyms[rng.Intn(len(w.Antonyms))]
		distractors = b.distractorTexts(it, t, correct, rng)
		stem = fmt.Sprintf("다음 단어 '%s'와 의미가 반대인 반의어를 고르세요.", w.Display)

	case TypeCloze:
		blanked := clozeSource(w)
		if blanked == "" {
			b.markUnrenderable(id, t)
			return nil, fmt.Errorf("render: item %d has no blankable sentence", id)
		}
		correct = w.Display
		distractors = b.distractorTexts(it, t, correct, rng)
		stem = fmt.Sprintf("문맥상 빈칸에 들어갈 가장 적절한 단어를 고르세요.\n\n%s", blanked)

	case TypeCollocation:
		coll := w.Collocations[rng.Intn(len(w.Collocations))]
		correct = "올바름"
		distractors = []string{"올바르지 않음"}
		stem = fmt.Sprintf("다음 연어 표현이 올바른지 판단하세요: '%s'", coll)
	}

	if correct == "" {
		b.markUnrenderable(id, t)
		return nil, fmt.Errorf("render: item %d has no answer text for type %s", id, t)
	}
	if t != TypeCollocation && len(distractors) < distractorCount {
		b.markUnrenderable(id, t)
		return nil, fmt.Errorf("render: item %d yields only %d distractors for type %s",
			id, len(distractors), t)
	}

	options := make([]string, 0, len(distractors)+1)
	options = append(options, correct)
	options = append(options, distractors...)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return &Rendered{
		ItemID:        id,
		Word:          it.Word,
		QuestionType:  t,
		Stem:          stem,
		CorrectAnswer: correct,
		Distractors:   distractors,
		Options:       options,
		POS:           it.POS,
		CEFR:          it.CEFR,
		Explanation:   explanation(w, correct, t),
	}, nil
}

const distractorCount = 3

// distractor strategies, applied in fallback order A, D, B, C until three
// texts are assembled.
type strategy int

const (
	strategyA strategy = iota // same POS, adjacent CEFR, same topic preferred
	strategyB                 // non-synonyms sharing POS
	strategyC                 // graph siblings excluding antonyms, with fallback fill
	strategyD                 // hypernym siblings
)

func primaryStrategy(t QuestionType) strategy {
	switch t {
	case TypeSynonym:
		return strategyB
	case TypeAntonym:
		return strategyC
	case TypeCloze:
		return strategyD
	default:
		return strategyA
	}
}

var strategyOrder = []strategy{strategyA, strategyD, strategyB, strategyC}

// distractorTexts assembles three distractor texts for the item under the
// given type. Candidate items come from the type's primary strategy, then
// the remaining strategies in fallback order; the option text is extracted
// per question type so fallbacks never mix text kinds.
func (b *Bank) distractorTexts(it *Item, t QuestionType, correct string, rng *rand.Rand) []string {
	taken := make([]string, 0, distractorCount)
	chosen := make([]*Item, 0, distractorCount)
	seen := map[string]struct{}{
		strings.ToLower(correct): {},
		strings.ToLower(it.Word): {},
	}
	// For word-valued options, the target's own synonyms and antonyms are
	// alternate correct answers and can never serve as distractors.
	if t == TypeSynonym || t == TypeAntonym || t == TypeCloze {
		for _, s := range it.meta.Synonyms {
			seen[strings.ToLower(s)] = struct{}{}
		}
		for _, a := range it.meta.Antonyms {
			seen[strings.ToLower(a)] = struct{}{}
		}
	}

	consume := func(cands []*Item) {
		for _, c := range cands {
			if len(taken) >= distractorCount {
				return
			}
			text := optionText(c.meta, t)
			if text == "" {
				continue
			}
			key := strings.ToLower(text)
			if _, dup := seen[key]; dup {
				continue
			}
			// Distractors must not be synonyms of each other.
			clash := false
			for _, prev := range chosen {
				if isSynonymPair(c.meta, prev.meta) {
					clash = true
					break
				}
			}
			if clash {
				continue
			}
			seen[key] = struct{}{}
			chosen = append(chosen, c)
			taken = append(taken, text)
		}
	}

	primary := primaryStrategy(t)
	consume(b.candidates(it, primary, rng))
	for _, s := range strategyOrder {
		if len(taken) >= distractorCount {
			break
		}
		if s == primary {
			continue
		}
		consume(b.candidates(it, s, rng))
	}
	return taken
}

// candidates returns candidate items for one strategy, shuffled with the
// rendering rng so regeneration is reproducible.
func (b *Bank) candidates(it *Item, s strategy, rng *rand.Rand) []*Item {
	target := it.meta
	switch s {
	case strategyA:
		same, other := b.meaningCandidates(it)
		rng.Shuffle(len(same), func(i, j int) { same[i], same[j] = same[j], same[i] })
		rng.Shuffle(len(other), func(i, j int) { other[i], other[j] = other[j], other[i] })
		return append(same, other...)

	case strategyB:
		cands := b.nonSynonymCandidates(it)
		rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
		return cands

	case strategyC:
		exclude := excludeSet(target)
		var cands []*Item
		for _, sib := range b.SiblingNeighbors(it.ID) {
			if sib.POS == it.POS && !inSet(exclude, sib.Word) {
				cands = append(cands, sib)
			}
		}
		// Thin graphs fall back to the adjacent-CEFR pool.
		if len(cands) < distractorCount*2 {
			for _, c := range b.nonSynonymCandidates(it) {
				if !inSet(exclude, c.Word) {
					cands = append(cands, c)
				}
			}
		}
		rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
		return cands

	case strategyD:
		exclude := excludeSet(target)
		var cands []*Item
		for _, sib := range b.SiblingNeighbors(it.ID) {
			if sib.POS == it.POS && !inSet(exclude, sib.Word) {
				cands = append(cands, sib)
			}
		}
		rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
		return cands
	}
	return nil
}

// meaningCandidates implements Strategy A's pool: same POS, adjacent CEFR,
// excluding synonyms, word-family members, and words sharing a Korean
// meaning. Split into same-topic (preferred) and rest.
func (b *Bank) meaningCandidates(it *Item) (sameTopic, otherTopic []*Item) {
	target := it.meta
	family := make(map[string]struct{}, len(target.WordFamily))
	for _, f := range target.WordFamily {
		family[strings.ToLower(f)] = struct{}{}
	}
	primaryTopic := target.PrimaryTopic()

	for _, cefr := range adjacentCEFR(it.CEFR) {
		for _, id := range b.byCEFR[cefr] {
			c := &b.items[id]
			if c.ID == it.ID || c.POS != it.POS {
				continue
			}
			if isSynonymPair(target, c.meta) {
				continue
			}
			if _, fam := family[strings.ToLower(c.Word)]; fam {
				continue
			}
			if sharesMeaning(target, c.meta) {
				continue
			}
			if primaryTopic != "" && strings.Contains(c.meta.Topic, primaryTopic) {
				sameTopic = append(sameTopic, c)
			} else {
				otherTopic = append(otherTopic, c)
			}
		}
	}
	return sameTopic, otherTopic
}

// nonSynonymCandidates implements Strategy B's pool: same POS, adjacent
// CEFR, excluding anything synonymous with the target.
func (b *Bank) nonSynonymCandidates(it *Item) []*Item {
	target := it.meta
	targetSyns := make(map[string]struct{}, len(target.Synonyms))
	for _, s := range target.Synonyms {
		targetSyns[strings.ToLower(s)] = struct{}{}
	}

	var cands []*Item
	for _, cefr := range adjacentCEFR(it.CEFR) {
		for _, id := range b.byCEFR[cefr] {
			c := &b.items[id]
			if c.ID == it.ID || c.POS != it.POS {
				continue
			}
			lower := strings.ToLower(c.Word)
			if _, syn := targetSyns[lower]; syn {
				continue
			}
			if isSynonymPair(target, c.meta) {
				continue
			}
			cands = append(cands, c)
		}
	}
	return cands
}

// optionText extracts the distractor text a candidate contributes under a
// question type.
func optionText(w *Word, t QuestionType) string {
	switch t {
	case TypeKoreanMeaning:
		return w.MeaningKo
	case TypeEnglishDef:
		return w.DefinitionEn
	default:
		return w.Display
	}
}

func excludeSet(w *Word) map[string]struct{} {
	set := make(map[string]struct{}, len(w.Synonyms)+len(w.Antonyms)+1)
	set[strings.ToLower(w.Display)] = struct{}{}
	for _, s := range w.Synonyms {
		set[strings.ToLower(s)] = struct{}{}
	}
	for _, a := range w.Antonyms {
		set[strings.ToLower(a)] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, s string) bool {
	_, ok := set[strings.ToLower(s)]
	return ok
}

var cefrLevels = []string{"A1", "A2", "B1", "B2", "C1"}

// adjacentCEFR returns the level itself plus its neighbors, the level
// first. Unknown levels widen to all five.
func adjacentCEFR(cefr string) []string {
	idx := -1
	for i, l := range cefrLevels {
		if l == cefr {
			idx = i
			break
		}
	}
	if idx < 0 {
		return cefrLevels
	}
	out := []string{cefr}
	if idx > 0 {
		out = append(out, cefrLevels[idx-1])
	}
	if idx < len(cefrLevels)-1 {
		out = append(out, cefrLevels[idx+1])
	}
	return out
}

// isSynonymPair checks the synonym lists of both words.
func isSynonymPair(w1, w2 *Word) bool {
	l1 := strings.ToLower(w1.Display)
	l2 := strings.ToLower(w2.Display)
	for _, s := range w1.Synonyms {
		if strings.ToLower(s) == l2 {
			return true
		}
	}
	for _, s := range w2.Synonyms {
		if strings.ToLower(s) == l1 {
			return true
		}
	}
	return false
}

// Korean particles stripped before meaning-overlap comparison.
var koreanParticles = map[string]struct{}{
	"을": {}, "를": {}, "이": {}, "가": {}, "의": {}, "에": {},
	"로": {}, "~": {}, "하다": {}, "되다": {},
}

// sharesMeaning reports whether two words' Korean glosses overlap in at
// least two content tokens, which would make one a giveaway distractor for
// the other.
func sharesMeaning(w1, w2 *Word) bool {
	if w1.MeaningKo == "" || w2.MeaningKo == "" {
		return false
	}
	t1 := meaningTokens(w1.MeaningKo)
	t2 := meaningTokens(w2.MeaningKo)
	overlap := 0
	for tok := range t1 {
		if _, ok := t2[tok]; ok {
			overlap++
			if overlap >= 2 {
				return true
			}
		}
	}
	return false
}

func meaningTokens(meaning string) map[string]struct{} {
	fields := strings.Fields(strings.ReplaceAll(meaning, ",", " "))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, particle := koreanParticles[f]; !particle {
			set[f] = struct{}{}
		}
	}
	return set
}

// clozeSource blanks the target word out of the item's first available
// example sentence. Empty when no sentence mentions the word.
func clozeSource(w *Word) string {
	sentence := w.Sentence1
	if sentence == "" {
		sentence = w.Sentence2
	}
	if sentence == "" {
		return ""
	}
	blanked, ok := blankSentence(sentence, w.Display)
	if !ok {
		return ""
	}
	return blanked
}

func blankSentence(sentence, word string) (string, bool) {
	if blanked := strings.ReplaceAll(sentence, word, "______"); blanked != sentence {
		return blanked, true
	}
	i := strings.Index(strings.ToLower(sentence), strings.ToLower(word))
	if i < 0 {
		return "", false
	}
	return sentence[:i] + "______" + sentence[i+len(word):], true
}

// explanation builds the bilingual answer explanation shown after a
// response.
func explanation(w *Word, correct string, t QuestionType) string {
	switch t {
	case TypeKoreanMeaning:
		return fmt.Sprintf("'%s'의 뜻: %s", w.Display, w.MeaningKo)
	case TypeEnglishDef:
		defn := w.DefinitionEn
		if defn == "" {
			defn = w.MeaningKo
		}
		return fmt.Sprintf("'%s' means: %s (%s)", w.Display, defn, w.MeaningKo)
	case TypeSynonym:
		return fmt.Sprintf("'%s'은/는 '%s'의 동의어입니다 (%s)", correct, w.Display, w.MeaningKo)
	case TypeAntonym:
		return fmt.Sprintf("'%s'은/는 '%s'의 반의어입니다 (%s)", correct, w.Display, w.MeaningKo)
	case TypeCloze:
		return fmt.Sprintf("'%s'가 빈칸에 적합한 단어입니다. (%s)", w.Display, w.MeaningKo)
	default:
		return fmt.Sprintf("'%s': %s", w.Display, w.MeaningKo)
	}
}
