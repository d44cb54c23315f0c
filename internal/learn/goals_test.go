// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package learn

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/dwkang/lexicat/internal/bank"
)

func TestGoalByID(t *testing.T) {
	t.Parallel()

	g := GoalByID("csat")
	if g.Name != "수능 어휘" || g.TargetWords != 5000 {
		t.Errorf("csat = %+v, want 수능 어휘 / 5000", g)
	}
	if !reflect.DeepEqual(g.Curricula, []string{"고등", "기타"}) {
		t.Errorf("csat curricula = %v", g.Curricula)
	}

	// Unknown ids keep their identity but take elementary defaults.
	g = GoalByID("phd")
	if g.ID != "phd" {
		t.Errorf("ID = %q, want phd", g.ID)
	}
	if g.Name != "초등 어휘" || g.TargetWords != 800 {
		t.Errorf("fallback = %+v, want elementary defaults", g)
	}
}

func TestDistributionsWellFormed(t *testing.T) {
	t.Parallel()

	for goalID, byStage := range distributions {
		for _, stage := range []string{StageFirstExposure, StageReview, StageMasteryCheck} {
			dist := byStage[stage]
			if len(dist) == 0 {
				t.Fatalf("%s/%s: empty distribution", goalID, stage)
			}
			sum := 0.0
			for _, tw := range dist {
				if !tw.t.Valid() {
					t.Errorf("%s/%s: invalid type %d", goalID, stage, tw.t)
				}
				if tw.w <= 0 {
					t.Errorf("%s/%s: non-positive weight %v", goalID, stage, tw.w)
				}
				sum += tw.w
			}
			if math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("%s/%s: weights sum to %v, want 1", goalID, stage, sum)
			}
		}
	}
}

func TestDistributionForFallback(t *testing.T) {
	t.Parallel()

	got := distributionFor("phd", StageReview)
	want := distributions["elementary"][StageReview]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unknown goal distribution = %v, want elementary review mix", got)
	}
}

func TestSampleTypeFrequencies(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(1))
	dist := distributionFor("elementary", StageFirstExposure)

	const draws = 20000
	counts := make(map[bank.QuestionType]int)
	for i := 0; i < draws; i++ {
		counts[sampleType(r, dist)]++
	}

	for qt := range counts {
		if qt != bank.TypeKoreanMeaning && qt != bank.TypeSynonym && qt != bank.TypeCloze {
			t.Fatalf("sampled type %d outside the elementary first mix", qt)
		}
	}
	for _, tw := range dist {
		got := float64(counts[tw.t]) / draws
		if math.Abs(got-tw.w) > 0.02 {
			t.Errorf("type %d frequency = %v, want about %v", tw.t, got, tw.w)
		}
	}
}

func TestFallbackOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goalID string
		stage  string
		want   []bank.QuestionType
	}{
		{"middle", StageReview, []bank.QuestionType{
			bank.TypeKoreanMeaning, bank.TypeSynonym, bank.TypeAntonym, bank.TypeCloze, bank.TypeCollocation,
		}},
		// Uniform weights keep ascending type order.
		{"high", StageReview, []bank.QuestionType{
			bank.TypeKoreanMeaning, bank.TypeEnglishDef, bank.TypeSynonym, bank.TypeAntonym, bank.TypeCloze,
		}},
		{"csat", StageMasteryCheck, []bank.QuestionType{
			bank.TypeEnglishDef, bank.TypeCloze, bank.TypeCollocation, bank.TypeSynonym, bank.TypeAntonym,
		}},
	}
	for _, tt := range tests {
		got := fallbackOrder(distributionFor(tt.goalID, tt.stage))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("fallbackOrder(%s/%s) = %v, want %v", tt.goalID, tt.stage, got, tt.want)
		}
	}
}
