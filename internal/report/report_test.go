// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package report

import (
	"fmt"
	"math"
	"testing"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/cat"
)

// fixtureTopics are raw topic strings that consolidate to twenty
// distinct categories.
var fixtureTopics = []string{
	"daily life", "emotion", "action", "personality", "thinking",
	"nature", "animal", "plant", "health", "food",
	"society", "communication", "education", "science", "time",
	"crime", "government", "transport", "relationship", "business",
}

var fixtureCEFR = []string{"A1", "A2", "B1", "B2", "C1"}

func posFor(i int) string {
	switch {
	case i%10 < 5:
		return "NOUN"
	case i%10 < 8:
		return "VERB"
	default:
		return "ADJ"
	}
}

// fixtureWords carry metadata for all six question types, so every
// dimension has practice material.
func fixtureWords(n int) []bank.Word {
	words := make([]bank.Word, n)
	for i := range words {
		display := fmt.Sprintf("word%03d", i)
		words[i] = bank.Word{
			Display:      display,
			FreqRank:     i + 1,
			POS:          posFor(i),
			CEFR:         fixtureCEFR[i%len(fixtureCEFR)],
			Curriculum:   []string{"초등", "중등", "고등"}[i%3],
			Topic:        fixtureTopics[i%len(fixtureTopics)],
			MeaningKo:    fmt.Sprintf("뜻%03d", i),
			DefinitionEn: fmt.Sprintf("meaning number %03d", i),
			Synonyms:     []string{fmt.Sprintf("syn-%03d", i)},
			Antonyms:     []string{fmt.Sprintf("ant-%03d", i)},
			Sentence1:    fmt.Sprintf("The %s appears in this sentence.", display),
			Collocations: []string{display + " example"},
		}
	}
	return words
}

// fixtureBank pins parameters: constant discrimination and difficulty
// swept across [-2.5, 2.5], so probability math is predictable.
func fixtureBank(t *testing.T, n int) *bank.Bank {
	t.Helper()
	b, err := bank.Build(fixtureWords(n), bank.Model2PL)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	updates := make(map[int]bank.ItemParams, n)
	for i := 0; i < n; i++ {
		updates[i] = bank.ItemParams{
			A: 1.2,
			B: -2.5 + 5.0*float64(i)/float64(n-1),
		}
	}
	return b.WithParams(updates, bank.Model2PL)
}

func record(itemID int, qt bank.QuestionType, correct bool) cat.ResponseRecord {
	return cat.ResponseRecord{ItemID: itemID, QuestionType: qt, IsCorrect: correct}
}

func TestCEFRLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		theta float64
		want  string
	}{
		{-4.0, "A1"},
		{-1.6, "A1"},
		{-1.5, "A2"},
		{-0.51, "A2"},
		{-0.5, "B1"},
		{0.0, "B1"},
		{0.5, "B2"},
		{1.49, "B2"},
		{1.5, "C1"},
		{3.2, "C1"},
	}
	for _, tt := range tests {
		if got := CEFRLevel(tt.theta); got != tt.want {
			t.Errorf("CEFRLevel(%v) = %q, want %q", tt.theta, got, tt.want)
		}
	}
}

func TestCEFRProbabilities(t *testing.T) {
	t.Parallel()

	for _, theta := range []float64{-2.5, -1.0, 0.0, 0.7, 2.0} {
		probs := cefrProbabilities(theta, 0.3)
		if len(probs) != len(cefrBands) {
			t.Fatalf("len(probs) = %d, want %d", len(probs), len(cefrBands))
		}
		var sum float64
		for _, p := range probs {
			if p < 0 || p > 1 {
				t.Errorf("theta %v: probability %v outside [0,1]", theta, p)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("theta %v: probabilities sum to %v, want 1", theta, sum)
		}

		// The band with the nearest center must carry the most mass.
		nearest, best := "", math.Inf(1)
		for _, b := range cefrBands {
			if d := math.Abs(theta - b.center); d < best {
				nearest, best = b.level, d
			}
		}
		top, topP := "", -1.0
		for level, p := range probs {
			if p > topP {
				top, topP = level, p
			}
		}
		if top != nearest {
			t.Errorf("theta %v: most mass on %s, want %s", theta, top, nearest)
		}
	}
}

func TestCurriculumLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		theta float64
		want  string
	}{
		{-2.0, "elementary"},
		{-0.81, "elementary"},
		{-0.8, "middle"},
		{0.29, "middle"},
		{0.3, "high"},
		{1.19, "high"},
		{1.2, "beyond_high"},
		{2.5, "beyond_high"},
	}
	for _, tt := range tests {
		if got := CurriculumLevel(tt.theta); got != tt.want {
			t.Errorf("CurriculumLevel(%v) = %q, want %q", tt.theta, got, tt.want)
		}
	}
}

func TestVocabSizeSaturation(t *testing.T) {
	t.Parallel()

	b := fixtureBank(t, 60)
	if got := VocabSize(b, 10); got != 60 {
		t.Errorf("VocabSize(theta=10) = %d, want the whole bank (60)", got)
	}
	if got := VocabSize(b, -10); got != 0 {
		t.Errorf("VocabSize(theta=-10) = %d, want 0", got)
	}
	lo, hi := VocabSize(b, -1.0), VocabSize(b, 1.0)
	if lo >= hi {
		t.Errorf("VocabSize not increasing in theta: %d at -1 vs %d at +1", lo, hi)
	}
}

func TestOxfordCoverage(t *testing.T) {
	t.Parallel()

	words := []bank.Word{
		{Display: "core1", POS: "NOUN", CEFR: "A1", MeaningKo: "하나", DefinitionEn: "one"},
		{Display: "core2", POS: "NOUN", CEFR: "B1", MeaningKo: "둘", DefinitionEn: "two"},
		{Display: "edge", POS: "NOUN", CEFR: "B2", MeaningKo: "셋", DefinitionEn: "three"},
	}
	built, err := bank.Build(words, bank.Model2PL)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	b := built.WithParams(map[int]bank.ItemParams{
		0: {A: 1.2, B: 0},
		1: {A: 1.2, B: 0},
		2: {A: 1.2, B: -3},
	}, bank.Model2PL)

	// Both core items sit at P=0.5 for theta 0; the easy B2 item must
	// not pull the average up.
	if got := oxfordCoverage(b, 0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("oxfordCoverage(0) = %v, want 0.5 over the two core items", got)
	}
}

func TestScoreDimensions(t *testing.T) {
	t.Parallel()

	records := []cat.ResponseRecord{
		record(0, bank.TypeKoreanMeaning, true),
		record(1, bank.TypeEnglishDef, true),
		record(2, bank.TypeKoreanMeaning, false),
		record(3, bank.TypeSynonym, true),
		record(4, bank.TypeAntonym, false),
	}
	scores := scoreDimensions(records)
	if len(scores) != 5 {
		t.Fatalf("len(scores) = %d, want 5", len(scores))
	}

	byKey := make(map[string]DimensionScore, len(scores))
	for _, ds := range scores {
		byKey[ds.Dimension] = ds
	}

	sem := byKey["semantic"]
	if sem.Correct != 2 || sem.Total != 3 {
		t.Errorf("semantic = %d/%d, want 2/3", sem.Correct, sem.Total)
	}
	if sem.Score == nil || *sem.Score != 67 {
		t.Errorf("semantic score = %v, want 67", sem.Score)
	}

	rel := byKey["relational"]
	if rel.Total != 2 || rel.Score != nil {
		t.Errorf("relational = total %d score %v, want 2 items and null score", rel.Total, rel.Score)
	}

	for _, key := range []string{"contextual", "form", "pragmatic"} {
		ds := byKey[key]
		if ds.Total != 0 || ds.Score != nil {
			t.Errorf("%s = total %d score %v, want untouched", key, ds.Total, ds.Score)
		}
	}

	// Display order is fixed.
	wantOrder := []string{"semantic", "contextual", "form", "relational", "pragmatic"}
	for i, ds := range scores {
		if ds.Dimension != wantOrder[i] {
			t.Errorf("scores[%d] = %s, want %s", i, ds.Dimension, wantOrder[i])
		}
	}
}

func TestTopicBreakdown(t *testing.T) {
	t.Parallel()

	b := fixtureBank(t, 60)
	topicOf := func(id int) string {
		it, ok := b.ByID(id)
		if !ok {
			t.Fatalf("ByID(%d) missing", id)
		}
		return it.Topic
	}

	// Items 0/20/40 share one topic, 1/21/41 a second, 2/22/42 a third,
	// 3/23 a fourth with too few responses to judge.
	records := []cat.ResponseRecord{
		record(0, bank.TypeKoreanMeaning, true),
		record(20, bank.TypeKoreanMeaning, true),
		record(40, bank.TypeKoreanMeaning, true),
		record(1, bank.TypeKoreanMeaning, true),
		record(21, bank.TypeKoreanMeaning, false),
		record(41, bank.TypeKoreanMeaning, false),
		record(2, bank.TypeKoreanMeaning, true),
		record(22, bank.TypeKoreanMeaning, true),
		record(42, bank.TypeKoreanMeaning, false),
		record(3, bank.TypeKoreanMeaning, false),
		record(23, bank.TypeKoreanMeaning, false),
	}

	strengths, weaknesses := topicBreakdown(b, records)

	if len(strengths) != 1 || strengths[0].Topic != topicOf(0) {
		t.Fatalf("strengths = %+v, want exactly the perfect topic %q", strengths, topicOf(0))
	}
	if strengths[0].Rate != 1.0 || strengths[0].Total != 3 {
		t.Errorf("strength stat = %+v, want rate 1.0 over 3", strengths[0])
	}

	if len(weaknesses) != 1 || weaknesses[0].Topic != topicOf(1) {
		t.Fatalf("weaknesses = %+v, want exactly the 1/3 topic %q", weaknesses, topicOf(1))
	}

	// The 2/3 topic is neither strong nor weak; the 0/2 topic lacks
	// sample size.
	for _, s := range append(strengths, weaknesses...) {
		if s.Topic == topicOf(2) || s.Topic == topicOf(3) {
			t.Errorf("topic %q must not appear in either list", s.Topic)
		}
	}
}

func TestTopicBreakdownCapsLists(t *testing.T) {
	t.Parallel()

	b := fixtureBank(t, 60)
	var records []cat.ResponseRecord
	// Six distinct topics, all answered perfectly.
	for base := 0; base < 6; base++ {
		for _, id := range []int{base, base + 20, base + 40} {
			records = append(records, record(id, bank.TypeKoreanMeaning, true))
		}
	}

	strengths, weaknesses := topicBreakdown(b, records)
	if len(strengths) != topicListMax {
		t.Errorf("len(strengths) = %d, want capped at %d", len(strengths), topicListMax)
	}
	if len(weaknesses) != 0 {
		t.Errorf("weaknesses = %+v, want none for a perfect run", weaknesses)
	}
}

func TestCEFRBreakdown(t *testing.T) {
	t.Parallel()

	b := fixtureBank(t, 60)
	records := []cat.ResponseRecord{
		record(0, bank.TypeKoreanMeaning, true),  // A1
		record(5, bank.TypeKoreanMeaning, false), // A1
		record(1, bank.TypeKoreanMeaning, true),  // A2
	}
	detail := cefrBreakdown(b, records)
	if len(detail) != 2 {
		t.Fatalf("len(detail) = %d, want 2", len(detail))
	}
	if detail[0].CEFR != "A1" || detail[0].Correct != 1 || detail[0].Total != 2 {
		t.Errorf("detail[0] = %+v, want A1 1/2", detail[0])
	}
	if detail[1].CEFR != "A2" || detail[1].Rate != 1.0 {
		t.Errorf("detail[1] = %+v, want A2 rate 1.0", detail[1])
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	weak := []TopicStat{{Topic: "nature", Correct: 1, Total: 4, Rate: 0.25}}

	recs := recommendations("A1", weak)
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want weak topic line plus level line", len(recs))
	}
	if want := "'nature' 영역 어휘 학습 강화 (정답률 25%)"; recs[0] != want {
		t.Errorf("recs[0] = %q, want %q", recs[0], want)
	}
	if want := "기초 고빈도 어휘(A1-A2) 반복 학습 권장"; recs[1] != want {
		t.Errorf("recs[1] = %q, want %q", recs[1], want)
	}

	if recs := recommendations("C1", nil); len(recs) != 1 || recs[0] != "학술/전문 어휘(B2-C1) 확장 학습 권장" {
		t.Errorf("C1 recs = %v, want the advanced-expansion line", recs)
	}

	if recs := recommendations("B1", nil); len(recs) != 0 {
		t.Errorf("B1 recs = %v, want none", recs)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		reason cat.TerminationReason
		n      int
		want   Status
	}{
		{"max items", cat.ReasonMaxItems, 40, StatusComplete},
		{"se threshold", cat.ReasonSEThreshold, 18, StatusComplete},
		{"convergence", cat.ReasonConvergence, 22, StatusComplete},
		{"pool exhausted early", cat.ReasonPoolExhausted, 8, StatusInsufficientData},
		{"pool exhausted late", cat.ReasonPoolExhausted, 15, StatusPartial},
		{"expired with data", cat.ReasonExpired, 5, StatusPartial},
		{"expired too early", cat.ReasonExpired, 4, StatusInsufficientData},
		{"corrupted", cat.ReasonCorrupted, 30, StatusInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classify(tt.reason, tt.n, 15); got != tt.want {
				t.Errorf("classify(%q, %d) = %q, want %q", tt.reason, tt.n, got, tt.want)
			}
		})
	}
}

func TestResolveEstimate(t *testing.T) {
	t.Parallel()

	in := Input{Theta: 0.4, SE: 0.3}
	if theta, se := resolveEstimate(in); theta != 0.4 || se != 0.3 {
		t.Errorf("resolveEstimate() = (%v, %v), want passthrough (0.4, 0.3)", theta, se)
	}

	nan := math.NaN()
	in = Input{
		Theta: nan,
		SE:    nan,
		Records: []cat.ResponseRecord{
			{ThetaAfter: 0.1, SEAfter: 0.8},
			{ThetaAfter: 0.2, SEAfter: 0.6},
			{ThetaAfter: nan, SEAfter: nan},
		},
	}
	if theta, se := resolveEstimate(in); theta != 0.2 || se != 0.6 {
		t.Errorf("resolveEstimate() = (%v, %v), want last finite snapshot (0.2, 0.6)", theta, se)
	}

	in = Input{Theta: nan, SE: nan}
	if theta, se := resolveEstimate(in); theta != 0 || se != 1 {
		t.Errorf("resolveEstimate() = (%v, %v), want the prior (0, 1)", theta, se)
	}
}

func TestBuildReport(t *testing.T) {
	t.Parallel()

	b := fixtureBank(t, 60)
	var records []cat.ResponseRecord
	for i := 0; i < 20; i++ {
		records = append(records, record(i, bank.TypeKoreanMeaning, i%3 != 0))
	}

	in := Input{
		SessionID: "report-1",
		Theta:     0.42,
		SE:        0.28,
		Reason:    cat.ReasonSEThreshold,
		Records:   records,
		MinItems:  15,
	}
	r := Build(b, in)

	if r.Status != StatusComplete {
		t.Errorf("Status = %q, want %q", r.Status, StatusComplete)
	}
	if r.TerminationReason != cat.ReasonSEThreshold {
		t.Errorf("TerminationReason = %q, want %q", r.TerminationReason, cat.ReasonSEThreshold)
	}
	if r.Theta != 0.42 || r.SE != 0.28 {
		t.Errorf("estimate = (%v, %v), want (0.42, 0.28)", r.Theta, r.SE)
	}
	if want := 1.0 - 0.28*0.28; math.Abs(r.Reliability-want) > 1e-12 {
		t.Errorf("Reliability = %v, want %v", r.Reliability, want)
	}
	if r.CEFRLevel != "B1" {
		t.Errorf("CEFRLevel = %q, want B1 for theta 0.42", r.CEFRLevel)
	}
	if r.CurriculumLevel != "high" {
		t.Errorf("CurriculumLevel = %q, want high", r.CurriculumLevel)
	}
	if r.EstimatedVocabulary != 3500 {
		t.Errorf("EstimatedVocabulary = %d, want the B1 display estimate 3500", r.EstimatedVocabulary)
	}
	if r.TotalItems != 20 {
		t.Errorf("TotalItems = %d, want 20", r.TotalItems)
	}
	wantCorrect := 0
	for _, rec := range records {
		if rec.IsCorrect {
			wantCorrect++
		}
	}
	if r.TotalCorrect != wantCorrect {
		t.Errorf("TotalCorrect = %d, want %d", r.TotalCorrect, wantCorrect)
	}
	if want := float64(wantCorrect) / 20; math.Abs(r.Accuracy-want) > 1e-12 {
		t.Errorf("Accuracy = %v, want %v", r.Accuracy, want)
	}
	if len(r.DimensionScores) != 5 {
		t.Errorf("len(DimensionScores) = %d, want 5", len(r.DimensionScores))
	}
	if r.VocabSizeEstimate <= 0 || r.VocabSizeEstimate > 60 {
		t.Errorf("VocabSizeEstimate = %d, want within (0, 60]", r.VocabSizeEstimate)
	}
	if r.OxfordCoverage <= 0 || r.OxfordCoverage >= 1 {
		t.Errorf("OxfordCoverage = %v, want inside (0, 1) at a mid ability", r.OxfordCoverage)
	}

	var sum float64
	for _, p := range r.CEFRProbabilities {
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("CEFRProbabilities sum = %v, want 1", sum)
	}
}

func TestBuildReportCorrupted(t *testing.T) {
	t.Parallel()

	b := fixtureBank(t, 60)
	nan := math.NaN()
	in := Input{
		SessionID: "report-corrupt",
		Theta:     nan,
		SE:        nan,
		Reason:    cat.ReasonCorrupted,
		Records: []cat.ResponseRecord{
			{ItemID: 0, QuestionType: bank.TypeKoreanMeaning, IsCorrect: true, ThetaAfter: 0.3, SEAfter: 0.9},
			{ItemID: 1, QuestionType: bank.TypeKoreanMeaning, IsCorrect: true, ThetaAfter: nan, SEAfter: nan},
		},
	}
	r := Build(b, in)

	if r.Status != StatusInsufficientData {
		t.Errorf("Status = %q, want %q", r.Status, StatusInsufficientData)
	}
	if r.Theta != 0.3 || r.SE != 0.9 {
		t.Errorf("estimate = (%v, %v), want the last finite snapshot (0.3, 0.9)", r.Theta, r.SE)
	}
	if math.IsNaN(r.OxfordCoverage) || math.IsNaN(r.Accuracy) {
		t.Error("report carries NaN values after a corrupted run")
	}
}
