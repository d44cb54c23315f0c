// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package report

import (
	"math"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/irt"
)

// cefrBand maps one theta interval to a CEFR level. The outer bands
// absorb estimates beyond the grid; center anchors the probability
// vector and the goal ability for the knowledge matrix.
type cefrBand struct {
	level  string
	low    float64
	high   float64
	center float64
}

var cefrBands = []cefrBand{
	{level: "A1", low: -3.0, high: -1.5, center: -2.25},
	{level: "A2", low: -1.5, high: -0.5, center: -1.0},
	{level: "B1", low: -0.5, high: 0.5, center: 0.0},
	{level: "B2", low: 0.5, high: 1.5, center: 1.0},
	{level: "C1", low: 1.5, high: 3.0, center: 2.25},
}

// cefrVocabEstimates maps a CEFR level to the rough known-word count
// conventionally associated with it, shown alongside the model-based
// estimate.
var cefrVocabEstimates = map[string]int{
	"A1": 1000,
	"A2": 2000,
	"B1": 3500,
	"B2": 5000,
	"C1": 8000,
}

// bandOf returns the index of the named band, -1 when unknown.
func bandOf(level string) int {
	for i, b := range cefrBands {
		if b.level == level {
			return i
		}
	}
	return -1
}

// CEFRLevel maps an ability estimate to the CEFR band containing it,
// clamped to the outer bands beyond the grid.
func CEFRLevel(theta float64) string {
	for _, b := range cefrBands[:len(cefrBands)-1] {
		if theta < b.high {
			return b.level
		}
	}
	return cefrBands[len(cefrBands)-1].level
}

// cefrProbabilities weighs each band by the distance of theta from the
// band center in SE units and normalizes with a softmax. A tight SE
// concentrates mass on the containing band; a wide one spreads it over
// the neighbors.
func cefrProbabilities(theta, se float64) map[string]float64 {
	if se < 1e-6 {
		se = 1e-6
	}
	scores := make([]float64, len(cefrBands))
	maxScore := math.Inf(-1)
	for i, b := range cefrBands {
		scores[i] = -math.Abs(theta-b.center) / se
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}
	var sum float64
	for i := range scores {
		scores[i] = math.Exp(scores[i] - maxScore)
		sum += scores[i]
	}
	probs := make(map[string]float64, len(cefrBands))
	for i, b := range cefrBands {
		probs[b.level] = scores[i] / sum
	}
	return probs
}

// CurriculumLevel maps an ability estimate to the Korean school
// curriculum tier.
func CurriculumLevel(theta float64) string {
	switch {
	case theta < -0.8:
		return "elementary"
	case theta < 0.3:
		return "middle"
	case theta < 1.2:
		return "high"
	default:
		return "beyond_high"
	}
}

// knownProbability is the base 2PL success chance for an item at the
// given ability. Report metrics ignore the guessing floor: they estimate
// word knowledge, not multiple-choice outcomes.
func knownProbability(theta float64, it *bank.Item) float64 {
	return irt.Probability(theta, irt.Params{A: it.A, B: it.B})
}

// VocabSize estimates the number of known words as the expected correct
// count over the whole bank.
func VocabSize(b *bank.Bank, theta float64) int {
	var total float64
	items := b.Items()
	for i := range items {
		total += knownProbability(theta, &items[i])
	}
	return int(math.Round(total))
}

// oxfordCoverage estimates command of the high-frequency core as the
// mean success probability over A1-B1 items.
func oxfordCoverage(b *bank.Bank, theta float64) float64 {
	var sum float64
	var n int
	items := b.Items()
	for i := range items {
		switch items[i].CEFR {
		case "A1", "A2", "B1":
			sum += knownProbability(theta, &items[i])
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
