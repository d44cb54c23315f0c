// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package bank

import (
	"math"
	"testing"
)

func TestInitialDifficultyOrdering(t *testing.T) {
	t.Parallel()

	easy := &Word{Display: "cat", CEFR: "A1", Curriculum: "초등", FreqRank: 1}
	hard := &Word{Display: "ubiquitous", CEFR: "C1", Curriculum: "고등", FreqRank: 95}

	bEasy := InitialDifficulty(easy, 100)
	bHard := InitialDifficulty(hard, 100)

	if bEasy >= bHard {
		t.Errorf("InitialDifficulty: easy %v >= hard %v", bEasy, bHard)
	}
	if bEasy >= 0 {
		t.Errorf("A1 elementary word difficulty = %v, want negative", bEasy)
	}
	if bHard <= 0 {
		t.Errorf("C1 high-school word difficulty = %v, want positive", bHard)
	}
}

func TestInitialDifficultyBounded(t *testing.T) {
	t.Parallel()

	// The composite is clipped to [0.01, 0.99] before the probit, so b can
	// never leave the corresponding quantile range.
	limit := 2.33
	words := []*Word{
		{Display: "a", CEFR: "A1", Curriculum: "초등", FreqRank: 1},
		{Display: "b", CEFR: "C1", Curriculum: "기타", FreqRank: 100, GSE: 90},
		{Display: "c"},
		{Display: "d", CEFR: "??", Curriculum: "??", FreqRank: -3},
	}
	for _, w := range words {
		b := InitialDifficulty(w, 100)
		if math.IsNaN(b) || math.Abs(b) > limit {
			t.Errorf("InitialDifficulty(%s) = %v, want |b| <= %v", w.Display, b, limit)
		}
	}
}

func TestInitialDifficultyUnknownLevelsUseMidpoints(t *testing.T) {
	t.Parallel()

	// Unknown CEFR and curriculum fall back to the B1/middle-school
	// midpoints, so a median-frequency word lands near zero.
	w := &Word{Display: "x", CEFR: "unknown", Curriculum: "unknown", FreqRank: 50}
	b := InitialDifficulty(w, 100)
	if math.Abs(b) > 0.5 {
		t.Errorf("midpoint-fallback difficulty = %v, want near 0", b)
	}
}

func TestInitialDifficultyGSERaisesComposite(t *testing.T) {
	t.Parallel()

	base := &Word{Display: "x", CEFR: "B1", Curriculum: "중등", FreqRank: 50}
	withGSE := &Word{Display: "x", CEFR: "B1", Curriculum: "중등", FreqRank: 50, GSE: 70}

	b0 := InitialDifficulty(base, 100)
	b1 := InitialDifficulty(withGSE, 100)
	if b1 <= b0 {
		t.Errorf("high GSE did not raise difficulty: %v <= %v", b1, b0)
	}
}

func TestInitialDiscrimination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		w    *Word
		want float64
	}{
		{
			"plain noun",
			&Word{POS: "NOUN"},
			1.05,
		},
		{
			"adjective with two synonyms",
			&Word{POS: "ADJ", Synonyms: []string{"glad", "joyful"}},
			0.90,
		},
		{
			"synonym penalty floored",
			&Word{POS: "NOUN", Synonyms: make([]string, 10)},
			0.7 * 1.05,
		},
		{
			"top educational value",
			&Word{POS: "NOUN", EducationalValue: 10},
			1.15 * 1.05,
		},
		{
			"general topic discount",
			&Word{POS: "ADJ", Topic: "General Vocabulary"},
			0.85,
		},
		{
			"oxford core discount",
			&Word{POS: "ADJ", Oxford3000: "Yes"},
			0.90,
		},
		{
			"function word floor",
			&Word{POS: "DET", Synonyms: make([]string, 10), Topic: "general", Oxford3000: "Yes"},
			aMin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := InitialDiscrimination(tt.w)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("InitialDiscrimination() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitialDiscriminationClamped(t *testing.T) {
	t.Parallel()

	for _, w := range []*Word{
		{POS: "DET", Synonyms: make([]string, 20), Topic: "grammar", Oxford3000: "Yes", EducationalValue: 6},
		{POS: "NOUN", EducationalValue: 10},
		{},
	} {
		a := InitialDiscrimination(w)
		if a < aMin || a > aMax {
			t.Errorf("InitialDiscrimination(%+v) = %v outside [%v, %v]", w, a, aMin, aMax)
		}
	}
}
