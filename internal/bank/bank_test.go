// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package bank

import (
	"testing"
)

// testWords builds a small controlled vocabulary: a fruit cluster sharing
// a hypernym, an adjective cluster with synonym/antonym links, one
// transparent loanword, and one isolated C1 word with an empty distractor
// pool.
func testWords() []Word {
	return []Word{
		{
			Display: "apple", FreqRank: 1, POS: "NOUN", CEFR: "A1",
			MeaningKo: "사과", DefinitionEn: "a round fruit with firm flesh",
			Curriculum: "초등", Topic: "Food|Fruit", Hypernyms: []string{"fruit"},
			Sentence1: "I ate an apple this morning.", Collocations: []string{"red apple"},
		},
		{
			Display: "banana", FreqRank: 2, POS: "NOUN", CEFR: "A1",
			MeaningKo: "바나나", DefinitionEn: "a long curved fruit",
			Curriculum: "초등", Topic: "Food", Hypernyms: []string{"fruit"},
			Sentence1: "A banana is yellow.",
		},
		{
			Display: "grape", FreqRank: 3, POS: "NOUN", CEFR: "A2",
			MeaningKo: "포도", DefinitionEn: "a small round fruit growing in bunches",
			Curriculum: "초등", Topic: "Food", Hypernyms: []string{"fruit"},
		},
		{
			Display: "pear", FreqRank: 4, POS: "NOUN", CEFR: "A2",
			MeaningKo: "배", DefinitionEn: "a sweet fruit narrow at the top",
			Curriculum: "초등", Topic: "Food", Hypernyms: []string{"fruit"},
		},
		{
			Display: "melon", FreqRank: 5, POS: "NOUN", CEFR: "B1",
			MeaningKo: "멜론", DefinitionEn: "a large sweet fruit",
			Curriculum: "중등", Topic: "Food", Hypernyms: []string{"fruit"},
		},
		{
			Display: "happy", FreqRank: 6, POS: "ADJ", CEFR: "A1",
			MeaningKo: "행복한", DefinitionEn: "feeling pleasure or joy",
			Curriculum: "초등", Topic: "Emotions",
			Synonyms: []string{"glad", "joyful"}, Antonyms: []string{"sad"},
			Sentence1: "She is happy today.",
		},
		{
			Display: "glad", FreqRank: 7, POS: "ADJ", CEFR: "A2",
			MeaningKo: "기쁜", DefinitionEn: "pleased and delighted",
			Curriculum: "초등", Topic: "Emotions", Synonyms: []string{"happy"},
		},
		{
			Display: "sad", FreqRank: 8, POS: "ADJ", CEFR: "A1",
			MeaningKo: "슬픈", DefinitionEn: "feeling sorrow",
			Curriculum: "초등", Topic: "Emotions", Antonyms: []string{"happy"},
		},
		{
			Display: "angry", FreqRank: 9, POS: "ADJ", CEFR: "A2",
			MeaningKo: "화난", DefinitionEn: "feeling strong displeasure",
			Curriculum: "중등", Topic: "Emotions",
		},
		{
			Display: "tired", FreqRank: 10, POS: "ADJ", CEFR: "A1",
			MeaningKo: "피곤한", DefinitionEn: "needing rest",
			Curriculum: "초등", Topic: "Daily Life",
		},
		{
			Display: "upset", FreqRank: 11, POS: "ADJ", CEFR: "A2",
			MeaningKo: "속상한", DefinitionEn: "unhappy and worried",
			Curriculum: "중등", Topic: "Emotions",
		},
		{
			Display: "joyful", FreqRank: 12, POS: "ADJ", CEFR: "B1",
			MeaningKo: "기쁨에 찬", DefinitionEn: "full of joy",
			Curriculum: "중등", Topic: "Emotions", Synonyms: []string{"happy"},
		},
		{
			Display: "run", FreqRank: 13, POS: "VERB", CEFR: "A1",
			MeaningKo: "달리다", DefinitionEn: "move fast on foot",
			Curriculum: "초등", Topic: "Action|Movement",
			Sentence1: "I run every day.", Collocations: []string{"run fast"},
		},
		{
			Display: "serene", FreqRank: 14, POS: "ADJ", CEFR: "C1",
			MeaningKo: "고요한", DefinitionEn: "calm and peaceful",
			Curriculum: "고등", Topic: "Emotions", Synonyms: []string{"calm"},
		},
	}
}

func mustBuild(t *testing.T) *Bank {
	t.Helper()
	words := testWords()
	for i := range words {
		words[i].IsLoanword = IsTransparentLoanword(words[i].Display)
	}
	b, err := Build(words, Model2PL)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return b
}

func TestBuildRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := Build(nil, Model2PL); err == nil {
		t.Error("Build(nil) = nil error, want error")
	}
}

func TestByIDAndByWord(t *testing.T) {
	t.Parallel()
	b := mustBuild(t)

	it, ok := b.ByID(0)
	if !ok || it.Word != "apple" {
		t.Fatalf("ByID(0) = %v, %v, want apple", it, ok)
	}
	if _, ok := b.ByID(999); ok {
		t.Error("ByID(999) = ok, want miss")
	}

	it, ok = b.ByWord("APPLE")
	if !ok || it.ID != 0 {
		t.Errorf("ByWord(APPLE) = %v, %v, want item 0", it, ok)
	}
}

func TestTopicConsolidation(t *testing.T) {
	t.Parallel()
	b := mustBuild(t)

	apple, _ := b.ByID(0)
	if apple.Topic != "food" {
		t.Errorf("apple topic = %q, want food", apple.Topic)
	}
	happy, _ := b.ByWord("happy")
	if happy.Topic != "emotions" {
		t.Errorf("happy topic = %q, want emotions", happy.Topic)
	}
}

func TestAdjacencyResolution(t *testing.T) {
	t.Parallel()
	b := mustBuild(t)

	apple, _ := b.ByWord("apple")
	sibs := b.SiblingNeighbors(apple.ID)
	want := map[string]bool{"banana": true, "grape": true, "pear": true, "melon": true}
	if len(sibs) != len(want) {
		t.Fatalf("apple siblings = %d items, want %d", len(sibs), len(want))
	}
	for _, s := range sibs {
		if !want[s.Word] {
			t.Errorf("unexpected sibling %q", s.Word)
		}
	}

	happy, _ := b.ByWord("happy")
	syns := b.SynonymNeighbors(happy.ID)
	if len(syns) != 2 {
		t.Fatalf("happy synonyms = %d items, want 2 (glad, joyful)", len(syns))
	}
	ants := b.AntonymNeighbors(happy.ID)
	if len(ants) != 1 || ants[0].Word != "sad" {
		t.Errorf("happy antonyms = %v, want [sad]", ants)
	}
}

func TestCapabilities(t *testing.T) {
	t.Parallel()
	b := mustBuild(t)

	tests := []struct {
		word string
		typ  QuestionType
		want bool
	}{
		{"apple", TypeKoreanMeaning, true},
		{"apple", TypeEnglishDef, true},
		{"apple", TypeSynonym, false}, // no synonyms
		{"apple", TypeCloze, true},
		{"apple", TypeCollocation, true},
		{"banana", TypeKoreanMeaning, false}, // loanword
		{"banana", TypeEnglishDef, false},    // loanword
		{"banana", TypeCloze, true},
		{"happy", TypeSynonym, true},
		{"happy", TypeAntonym, true},
		{"happy", TypeCollocation, false},
		{"grape", TypeCloze, false}, // no sentence
	}

	for _, tt := range tests {
		it, ok := b.ByWord(tt.word)
		if !ok {
			t.Fatalf("word %q missing from bank", tt.word)
		}
		if got := b.Supports(it.ID, tt.typ); got != tt.want {
			t.Errorf("Supports(%s, %s) = %v, want %v", tt.word, tt.typ, got, tt.want)
		}
	}
}

func TestSelectFilters(t *testing.T) {
	t.Parallel()
	b := mustBuild(t)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"by topic", Filter{Topic: "food"}, 5},
		{"by pos", Filter{POS: "VERB"}, 1},
		{"by cefr", Filter{CEFR: "A1"}, 6},
		{"by curriculum", Filter{Curriculum: "중등"}, 4},
		{"pos and cefr", Filter{POS: "ADJ", CEFR: "A2"}, 3},
		{"capability", Filter{Type: TypeSynonym}, 4}, // happy, glad, joyful, serene
		{"no match", Filter{Topic: "space travel"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := b.Select(tt.filter)
			if len(got) != tt.want {
				t.Errorf("Select(%+v) = %d items, want %d", tt.filter, len(got), tt.want)
			}
		})
	}
}

func TestRankByInfo(t *testing.T) {
	t.Parallel()
	b := mustBuild(t)

	// Pin parameters so the ranking is fully determined: equal
	// discrimination, difficulties straddling theta=0.
	updates := map[int]ItemParams{
		0: {A: 1.0, B: 0.0},
		1: {A: 1.0, B: 1.0},
		2: {A: 1.0, B: -1.0},
		3: {A: 1.0, B: 3.0},
	}
	nb := b.WithParams(updates, Model2PL)

	only := map[int]bool{0: true, 1: true, 2: true, 3: true}
	got := nb.RankByInfo(0.0, 3, func(it *Item) bool { return only[it.ID] })

	if len(got) != 3 {
		t.Fatalf("RankByInfo returned %d items, want 3", len(got))
	}
	if got[0].ID != 0 {
		t.Errorf("top item = %d, want 0 (b closest to theta)", got[0].ID)
	}
	// Items 1 and 2 have identical information; ties break by ascending id.
	if got[1].ID != 1 || got[2].ID != 2 {
		t.Errorf("tie order = [%d, %d], want [1, 2]", got[1].ID, got[2].ID)
	}
}

func TestWithParamsCreatesNewVersion(t *testing.T) {
	t.Parallel()
	b := mustBuild(t)

	orig, _ := b.ByID(0)
	origA, origB := orig.A, orig.B

	nb := b.WithParams(map[int]ItemParams{0: {A: 1.7, B: 0.9}}, Model3PL)

	if nb.Version() != b.Version()+1 {
		t.Errorf("new version = %d, want %d", nb.Version(), b.Version()+1)
	}
	if nb.Model() != Model3PL {
		t.Errorf("new model = %v, want 3PL", nb.Model())
	}
	updated, _ := nb.ByID(0)
	if updated.A != 1.7 || updated.B != 0.9 {
		t.Errorf("updated params = (%v, %v), want (1.7, 0.9)", updated.A, updated.B)
	}
	// Original untouched.
	same, _ := b.ByID(0)
	if same.A != origA || same.B != origB {
		t.Error("WithParams mutated the original bank")
	}
}

func TestResponseParamsHonorModel(t *testing.T) {
	t.Parallel()
	b := mustBuild(t)
	it, _ := b.ByWord("happy")

	p2 := b.ResponseParams(it, TypeSynonym)
	if p2.C != 0 {
		t.Errorf("2PL c = %v, want 0", p2.C)
	}
	if p2.B != it.B+TypeSynonym.DifficultyOffset() {
		t.Errorf("effective b = %v, want %v", p2.B, it.B+TypeSynonym.DifficultyOffset())
	}

	nb := b.WithParams(nil, Model3PL)
	it3, _ := nb.ByWord("happy")
	if c := nb.ResponseParams(it3, TypeSynonym).C; c != 0.20 {
		t.Errorf("3PL four-option c = %v, want 0.20", c)
	}
	if c := nb.ResponseParams(it3, TypeCollocation).C; c != 0.40 {
		t.Errorf("3PL binary c = %v, want 0.40", c)
	}
}

func TestHandlePublish(t *testing.T) {
	t.Parallel()
	b := mustBuild(t)

	h := NewHandle(b)
	if h.Current() != b {
		t.Fatal("Current() did not return the initial bank")
	}

	nb := b.WithParams(nil, Model2PL)
	h.Publish(nb)
	if h.Current() != nb {
		t.Error("Current() did not observe the published bank")
	}
}

func TestStats(t *testing.T) {
	t.Parallel()
	b := mustBuild(t)

	s := b.Stats()
	if s.Items != len(testWords()) {
		t.Errorf("stats items = %d, want %d", s.Items, len(testWords()))
	}
	if s.Loanwords != 1 {
		t.Errorf("stats loanwords = %d, want 1 (banana)", s.Loanwords)
	}
	if s.ByPOS["ADJ"] != 8 {
		t.Errorf("stats ADJ count = %d, want 8", s.ByPOS["ADJ"])
	}
	if s.AMin < 0.5 || s.AMax > 2.0 {
		t.Errorf("discrimination range [%v, %v] outside clamp bounds", s.AMin, s.AMax)
	}
	if s.BMin < s.BMedian && s.BMedian < s.BMax {
		// expected ordering holds
	} else {
		t.Errorf("difficulty stats out of order: min %v, median %v, max %v", s.BMin, s.BMedian, s.BMax)
	}
}

func TestEffectiveB(t *testing.T) {
	t.Parallel()

	it := Item{B: 0.5}
	tests := []struct {
		typ  QuestionType
		want float64
	}{
		{TypeKoreanMeaning, 0.5},
		{TypeEnglishDef, 1.1},
		{TypeSynonym, 0.7},
		{TypeAntonym, 0.8},
		{TypeCloze, 1.0},
		{TypeCollocation, 0.7},
	}
	for _, tt := range tests {
		if got := it.EffectiveB(tt.typ); got != tt.want {
			t.Errorf("EffectiveB(%s) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}
