// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package bank

import (
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Difficulty is a weighted composite of five ordinal difficulty signals,
// pushed through the probit so the resulting b lands on the usual IRT
// scale. Korean curriculum and corpus frequency carry 80% of the weight;
// CEFR and GSE refine the rest. Lexile is currently disabled but kept in
// the composite for when the column is backfilled.
const (
	bWeightCEFR       = 0.10
	bWeightFreq       = 0.40
	bWeightGSE        = 0.10
	bWeightCurriculum = 0.40
	bWeightLexile     = 0.00
)

var cefrNumeric = map[string]float64{
	"A1": 0.0, "A2": 0.2, "B1": 0.45, "B2": 0.7, "C1": 0.95,
}

var curriculumNumeric = map[string]float64{
	"초등": 0.1, "중등": 0.45, "고등": 0.75, "기타": 0.95,
}

// Discrimination starts from a neutral base and is scaled by metadata
// signals of how cleanly the word separates ability levels.
const (
	aBase = 1.0
	aMin  = 0.5
	aMax  = 2.0
)

var eduValueBonus = map[int]float64{
	10: 1.15, 9: 1.10, 8: 1.0, 7: 0.90, 6: 0.80,
}

var posFactor = map[string]float64{
	"NOUN": 1.05, "VERB": 1.05, "ADJ": 1.0, "ADV": 0.95,
	"PREP": 0.80, "CONJ": 0.75, "DET": 0.70, "PRON": 0.75,
	"INTERJ": 0.85, "NUM": 0.80,
}

var generalTopics = []string{"general", "grammar"}

// InitialDifficulty derives the starting difficulty parameter b for a word
// from its metadata. Deterministic; recomputed from metadata on cold start.
func InitialDifficulty(w *Word, totalWords int) float64 {
	cefrVal, cefrOK := cefrNumeric[w.CEFR]
	if !cefrOK {
		cefrVal = 0.45 // B1 midpoint
	}

	freqVal := 0.5
	if w.FreqRank > 0 && totalWords > 0 {
		freqVal = float64(w.FreqRank) / float64(totalWords)
	}

	gseVal, gseKnown := 0.0, false
	if w.GSE > 0 {
		gseVal = clamp01((w.GSE - 10.0) / 60.0)
		gseKnown = true
	}

	currVal, currOK := curriculumNumeric[w.Curriculum]
	if !currOK {
		currVal = 0.45
	}

	lexVal, lexKnown := 0.0, false
	if mid := parseLexileMidpoint(w.Lexile); mid > 0 {
		lexVal = clamp01((mid - 200.0) / 1200.0)
		lexKnown = true
	}

	// Missing signals drop out of the composite; the rest are re-weighted.
	wGSE, wLex := 0.0, 0.0
	if gseKnown {
		wGSE = bWeightGSE
	}
	if lexKnown {
		wLex = bWeightLexile
	}

	totalWeight := bWeightCEFR + bWeightFreq + wGSE + bWeightCurriculum + wLex
	composite := 0.5
	if totalWeight > 1e-10 {
		composite = (bWeightCEFR*cefrVal + bWeightFreq*freqVal + wGSE*gseVal +
			bWeightCurriculum*currVal + wLex*lexVal) / totalWeight
	}

	if composite < 0.01 {
		composite = 0.01
	}
	if composite > 0.99 {
		composite = 0.99
	}
	return distuv.UnitNormal.Quantile(composite)
}

// InitialDiscrimination derives the starting discrimination parameter a
// for a word from its metadata, clamped to [0.5, 2.0].
func InitialDiscrimination(w *Word) float64 {
	a := aBase

	// Many synonyms blur the construct being measured.
	penalty := 1.0 - 0.05*float64(len(w.Synonyms))
	if penalty < 0.7 {
		penalty = 0.7
	}
	a *= penalty

	if bonus, ok := eduValueBonus[w.EducationalValue]; ok {
		a *= bonus
	}

	topicLower := strings.ToLower(w.Topic)
	for _, t := range generalTopics {
		if strings.Contains(topicLower, t) {
			a *= 0.85
			break
		}
	}

	if f, ok := posFactor[w.POS]; ok {
		a *= f
	}

	// Oxford 3000 words are so common that everyone above A2 knows them.
	if w.HasOxford3000() {
		a *= 0.90
	}

	if a < aMin {
		a = aMin
	}
	if a > aMax {
		a = aMax
	}
	return a
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
