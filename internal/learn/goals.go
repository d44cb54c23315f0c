// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package learn

import (
	"math/rand"
	"sort"

	"github.com/dwkang/lexicat/internal/bank"
)

// Stage labels how far a learner has come with one word. The stage
// decides which question-type mix the next card is sampled from.
const (
	StageFirstExposure = "first_exposure"
	StageReview        = "review"
	StageMasteryCheck  = "mastery_check"
)

// Goal describes one learning track: the curriculum bands it draws its
// words from plus default naming and sizing for session creation.
type Goal struct {
	ID          string
	Name        string
	TargetWords int
	Curricula   []string
}

var goals = map[string]Goal{
	"elementary": {ID: "elementary", Name: "초등 어휘", TargetWords: 800, Curricula: []string{"초등"}},
	"middle":     {ID: "middle", Name: "중학교과 어휘", TargetWords: 1200, Curricula: []string{"중등"}},
	"high":       {ID: "high", Name: "고등학교 어휘", TargetWords: 1000, Curricula: []string{"고등"}},
	"csat":       {ID: "csat", Name: "수능 어휘", TargetWords: 5000, Curricula: []string{"고등", "기타"}},
}

// GoalByID resolves a goal id against the track catalog. Unknown ids
// keep their identity but inherit the elementary track's defaults.
func GoalByID(id string) Goal {
	if g, ok := goals[id]; ok {
		return g
	}
	g := goals["elementary"]
	g.ID = id
	return g
}

type typeWeight struct {
	t bank.QuestionType
	w float64
}

// distributions holds the per-goal, per-stage question-type mix.
// Weights within a row sum to 1. Easier tracks lean on Korean-meaning
// recognition early; harder tracks front-load production formats.
var distributions = map[string]map[string][]typeWeight{
	"elementary": {
		StageFirstExposure: {{bank.TypeKoreanMeaning, 0.60}, {bank.TypeSynonym, 0.20}, {bank.TypeCloze, 0.20}},
		StageReview:        {{bank.TypeKoreanMeaning, 0.40}, {bank.TypeSynonym, 0.30}, {bank.TypeAntonym, 0.20}, {bank.TypeCloze, 0.10}},
		StageMasteryCheck:  {{bank.TypeSynonym, 0.40}, {bank.TypeAntonym, 0.30}, {bank.TypeCloze, 0.30}},
	},
	"middle": {
		StageFirstExposure: {{bank.TypeKoreanMeaning, 0.40}, {bank.TypeSynonym, 0.30}, {bank.TypeCloze, 0.20}, {bank.TypeCollocation, 0.10}},
		StageReview:        {{bank.TypeKoreanMeaning, 0.30}, {bank.TypeSynonym, 0.25}, {bank.TypeAntonym, 0.20}, {bank.TypeCloze, 0.15}, {bank.TypeCollocation, 0.10}},
		StageMasteryCheck:  {{bank.TypeEnglishDef, 0.20}, {bank.TypeSynonym, 0.20}, {bank.TypeAntonym, 0.20}, {bank.TypeCloze, 0.20}, {bank.TypeCollocation, 0.20}},
	},
	"high": {
		StageFirstExposure: {{bank.TypeKoreanMeaning, 0.30}, {bank.TypeSynonym, 0.30}, {bank.TypeCloze, 0.30}, {bank.TypeCollocation, 0.10}},
		StageReview:        {{bank.TypeKoreanMeaning, 0.20}, {bank.TypeEnglishDef, 0.20}, {bank.TypeSynonym, 0.20}, {bank.TypeAntonym, 0.20}, {bank.TypeCloze, 0.20}},
		StageMasteryCheck:  {{bank.TypeEnglishDef, 0.25}, {bank.TypeSynonym, 0.15}, {bank.TypeAntonym, 0.15}, {bank.TypeCloze, 0.25}, {bank.TypeCollocation, 0.20}},
	},
	"csat": {
		StageFirstExposure: {{bank.TypeKoreanMeaning, 0.30}, {bank.TypeEnglishDef, 0.10}, {bank.TypeSynonym, 0.20}, {bank.TypeCloze, 0.30}, {bank.TypeCollocation, 0.10}},
		StageReview:        {{bank.TypeKoreanMeaning, 0.20}, {bank.TypeEnglishDef, 0.20}, {bank.TypeSynonym, 0.20}, {bank.TypeAntonym, 0.20}, {bank.TypeCloze, 0.20}},
		StageMasteryCheck:  {{bank.TypeEnglishDef, 0.30}, {bank.TypeSynonym, 0.10}, {bank.TypeAntonym, 0.10}, {bank.TypeCloze, 0.30}, {bank.TypeCollocation, 0.20}},
	},
}

// distributionFor returns the type mix for a goal and stage, falling
// back to the elementary track for unknown goal ids.
func distributionFor(goalID, stage string) []typeWeight {
	byStage, ok := distributions[goalID]
	if !ok {
		byStage = distributions["elementary"]
	}
	return byStage[stage]
}

// sampleType draws one question type from the mix.
func sampleType(r *rand.Rand, dist []typeWeight) bank.QuestionType {
	x := r.Float64()
	acc := 0.0
	for _, tw := range dist {
		acc += tw.w
		if x < acc {
			return tw.t
		}
	}
	return dist[len(dist)-1].t
}

// fallbackOrder lists the mix's types by descending weight; equal
// weights keep their ascending-type order.
func fallbackOrder(dist []typeWeight) []bank.QuestionType {
	sorted := make([]typeWeight, len(dist))
	copy(sorted, dist)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].w > sorted[j].w })
	out := make([]bank.QuestionType, len(sorted))
	for i, tw := range sorted {
		out[i] = tw.t
	}
	return out
}
