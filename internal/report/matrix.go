// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package report

import (
	"math"
	"sort"

	"github.com/dwkang/lexicat/internal/bank"
)

// defaultMatrixSample is the number of words the knowledge matrix
// samples when the caller does not override it.
const defaultMatrixSample = 150

// matrixBandFloor is the smallest contribution a populated CEFR band
// makes to the sample, so thin bands stay visible in the grid.
const matrixBandFloor = 5

// KnowledgeState is one band of the knowledge-depth scale, with its
// display metadata and the success-probability interval it covers.
type KnowledgeState struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	LabelKo string  `json:"label_ko"`
	Color   string  `json:"color"`
	MinP    float64 `json:"min_p"`
	MaxP    float64 `json:"max_p"`
}

// knowledgeStates spans [0,1] without gaps; the top band's MaxP sits
// above 1 so a perfect probability still classifies.
var knowledgeStates = []KnowledgeState{
	{Key: "not_known", Label: "Not Known", LabelKo: "미학습", Color: "#e2e8f0", MinP: 0, MaxP: 0.25},
	{Key: "emerging", Label: "Emerging", LabelKo: "인식", Color: "#93c5fd", MinP: 0.25, MaxP: 0.5},
	{Key: "developing", Label: "Developing", LabelKo: "발전", Color: "#86efac", MinP: 0.5, MaxP: 0.7},
	{Key: "comfortable", Label: "Comfortable", LabelKo: "익숙", Color: "#fde047", MinP: 0.7, MaxP: 0.85},
	{Key: "mastered", Label: "Mastered", LabelKo: "완전 습득", Color: "#fca5a5", MinP: 0.85, MaxP: 1.01},
}

// MatrixWord is one sampled word with its current and projected
// knowledge states.
type MatrixWord struct {
	Word               string  `json:"word"`
	MeaningKo          string  `json:"meaning_ko"`
	CEFR               string  `json:"cefr"`
	POS                string  `json:"pos"`
	FreqRank           int     `json:"freq_rank"`
	CurrentState       string  `json:"current_state"`
	CurrentProbability float64 `json:"current_probability"`
	GoalState          string  `json:"goal_state"`
	GoalProbability    float64 `json:"goal_probability"`
}

// MatrixSummary counts sampled words per knowledge state.
type MatrixSummary struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// GoalSummary is the projected distribution at the goal ability.
type GoalSummary struct {
	Counts       map[string]int `json:"counts"`
	Total        int            `json:"total"`
	WordsChanged int            `json:"words_changed"`
}

// Matrix is the knowledge-depth grid for a representative slice of the
// bank, at the current ability and projected one CEFR band up.
type Matrix struct {
	Words        []MatrixWord     `json:"words"`
	TotalSampled int              `json:"total_sampled"`
	CurrentTheta float64          `json:"current_theta"`
	GoalTheta    float64          `json:"goal_theta"`
	GoalCEFR     string           `json:"goal_cefr"`
	Summary      MatrixSummary    `json:"summary"`
	GoalSummary  GoalSummary      `json:"goal_summary"`
	States       []KnowledgeState `json:"states"`
}

// BuildMatrix computes the knowledge matrix at the given ability. A
// non-positive sampleSize selects the default.
func BuildMatrix(b *bank.Bank, theta float64, sampleSize int) *Matrix {
	if sampleSize <= 0 {
		sampleSize = defaultMatrixSample
	}
	sampled := sampleByBand(b, sampleSize)
	goalTheta, goalCEFR := goalAbility(theta)

	currentCounts := emptyStateCounts()
	goalCounts := emptyStateCounts()
	changed := 0

	words := make([]MatrixWord, 0, len(sampled))
	for _, it := range sampled {
		cur := knownProbability(theta, it)
		goal := knownProbability(goalTheta, it)
		curState := classifyProbability(cur)
		goalState := classifyProbability(goal)
		currentCounts[curState]++
		goalCounts[goalState]++
		if curState != goalState {
			changed++
		}
		words = append(words, MatrixWord{
			Word:               it.Word,
			MeaningKo:          it.Meaning(),
			CEFR:               it.CEFR,
			POS:                it.POS,
			FreqRank:           it.FreqRank,
			CurrentState:       curState,
			CurrentProbability: cur,
			GoalState:          goalState,
			GoalProbability:    goal,
		})
	}

	return &Matrix{
		Words:        words,
		TotalSampled: len(words),
		CurrentTheta: theta,
		GoalTheta:    goalTheta,
		GoalCEFR:     goalCEFR,
		Summary:      MatrixSummary{Counts: currentCounts, Total: len(words)},
		GoalSummary:  GoalSummary{Counts: goalCounts, Total: len(words), WordsChanged: changed},
		States:       knowledgeStates,
	}
}

func classifyProbability(p float64) string {
	for _, s := range knowledgeStates {
		if p >= s.MinP && p < s.MaxP {
			return s.Key
		}
	}
	if p >= knowledgeStates[len(knowledgeStates)-1].MinP {
		return knowledgeStates[len(knowledgeStates)-1].Key
	}
	return knowledgeStates[0].Key
}

func emptyStateCounts() map[string]int {
	counts := make(map[string]int, len(knowledgeStates))
	for _, s := range knowledgeStates {
		counts[s.Key] = 0
	}
	return counts
}

// goalAbility returns the ability target one CEFR band up: the center
// of the next band, pushed to a fixed step above the current estimate
// when the learner already sits at or past it.
func goalAbility(theta float64) (float64, string) {
	idx := bandOf(CEFRLevel(theta))
	if idx < 0 {
		idx = 2
	}
	next := idx + 1
	if next >= len(cefrBands) {
		next = len(cefrBands) - 1
	}
	goal := cefrBands[next].center
	if goal <= theta+0.1 {
		goal = theta + 0.5
	}
	return goal, cefrBands[next].level
}

// sampleByBand picks a deterministic, CEFR-stratified sample: each band
// contributes in proportion to its share of the bank (at least
// matrixBandFloor words when it has them), spread evenly across its
// frequency range.
func sampleByBand(b *bank.Bank, sampleSize int) []*bank.Item {
	items := b.Items()
	if len(items) == 0 {
		return nil
	}
	byBand := make(map[string][]*bank.Item, len(cefrBands))
	for i := range items {
		it := &items[i]
		band := it.CEFR
		if bandOf(band) < 0 {
			band = "B1"
		}
		byBand[band] = append(byBand[band], it)
	}

	total := len(items)
	sampled := make([]*bank.Item, 0, sampleSize)
	for _, band := range cefrBands {
		pool := byBand[band.level]
		if len(pool) == 0 {
			continue
		}
		n := int(math.Round(float64(len(pool)) / float64(total) * float64(sampleSize)))
		if n < matrixBandFloor {
			n = matrixBandFloor
		}
		if n > len(pool) {
			n = len(pool)
		}
		if remaining := sampleSize - len(sampled); n > remaining {
			n = remaining
		}
		if n <= 0 {
			continue
		}
		sortByFreq(pool)
		if len(pool) == n {
			sampled = append(sampled, pool...)
			continue
		}
		step := float64(len(pool)) / float64(n)
		for i := 0; i < n; i++ {
			sampled = append(sampled, pool[int(float64(i)*step)])
		}
	}

	sortByFreq(sampled)
	if len(sampled) > sampleSize {
		sampled = sampled[:sampleSize]
	}
	return sampled
}

func sortByFreq(items []*bank.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].FreqRank != items[j].FreqRank {
			return items[i].FreqRank < items[j].FreqRank
		}
		return items[i].ID < items[j].ID
	})
}
