// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/dwkang/lexicat/internal/bank"
)

// Plan thresholds: dimensions scoring under planGateScore (or not
// scored at all) get a plan entry; the priority tiers split at the
// high and medium cutoffs.
const (
	planGateScore   = 75
	planHighScore   = 40
	planMediumScore = 60
)

const (
	priorityHigh   = "high"
	priorityMedium = "medium"
	priorityReview = "review"
)

// exerciseOffset shifts practice items slightly above the measured
// ability, into the zone where learning is fastest.
const exerciseOffset = 0.2

// StudyPlan is the personalized post-test practice program.
type StudyPlan struct {
	Recommendations []Recommendation `json:"recommendations"`
	TotalExercises  int              `json:"total_exercises"`
	WeakDimensions  []string         `json:"weak_dimensions"`
	WeeklyPlan      []WeekPlan       `json:"weekly_plan"`
}

// Recommendation targets one weak dimension with guidance and a batch
// of rendered exercises.
type Recommendation struct {
	Dimension string     `json:"dimension"`
	Label     string     `json:"label"`
	LabelKo   string     `json:"label_ko"`
	Color     string     `json:"color"`
	Score     *int       `json:"score"`
	Priority  string     `json:"priority"`
	TipKo     string     `json:"tip_ko"`
	TipEn     string     `json:"tip_en"`
	Exercises []Exercise `json:"exercises"`
}

// Exercise is one rendered practice question inside a study plan.
type Exercise struct {
	ID           string            `json:"id"`
	Dimension    string            `json:"dimension"`
	Word         string            `json:"word"`
	CEFR         string            `json:"cefr"`
	QuestionType bank.QuestionType `json:"question_type"`
	Prompt       string            `json:"prompt"`
	Options      []string          `json:"options"`
	CorrectIndex int               `json:"correct_index"`
	Explanation  string            `json:"explanation,omitempty"`
}

// WeekPlan is one week of the four-week study roadmap.
type WeekPlan struct {
	Week          int      `json:"week"`
	Focus         []string `json:"focus"`
	FocusLabels   []string `json:"focus_labels"`
	DailyTarget   int      `json:"daily_target"`
	DescriptionKo string   `json:"description_ko"`
	DescriptionEn string   `json:"description_en"`
}

type tip struct{ ko, en string }

// dimensionTips carries the study guidance shown with each plan entry.
var dimensionTips = map[string]tip{
	"semantic": {
		ko: "단어의 정확한 의미와 유사 단어 간 미묘한 차이에 집중하세요.",
		en: "Focus on exact meanings and subtle differences between similar words.",
	},
	"contextual": {
		ko: "문장 속에서 단어를 사용하는 연습을 하세요. 연어(함께 쓰이는 단어)에 주의하세요.",
		en: "Practice using words in sentences. Pay attention to collocations.",
	},
	"form": {
		ko: "단어 가족을 공부하세요: 같은 어근에서 파생된 명사, 동사, 형용사, 부사를 함께 학습하세요.",
		en: "Study word families: learn nouns, verbs, adjectives from the same root together.",
	},
	"relational": {
		ko: "동의어, 반의어, 관련 단어를 함께 학습하여 어휘 네트워크를 확장하세요.",
		en: "Build your word network by learning synonyms, antonyms, and related words together.",
	},
	"pragmatic": {
		ko: "격식체와 비격식체 단어를 구분하는 연습을 하세요. 학술적 글쓰기와 일상 대화의 어휘가 다릅니다.",
		en: "Notice when words are formal vs. informal. Academic writing uses different vocabulary.",
	},
}

// exerciseIDPrefix matches the short dimension tags the frontend keys
// exercise lists on.
var exerciseIDPrefix = map[string]string{
	"semantic":   "sem",
	"contextual": "ctx",
	"form":       "frm",
	"relational": "rel",
	"pragmatic":  "prg",
}

// BuildStudyPlan derives the practice program for one terminated
// session. Exercises render deterministically from the session id, so
// refetching a plan reproduces it byte for byte.
func BuildStudyPlan(b *bank.Bank, in Input) *StudyPlan {
	theta, _ := resolveEstimate(in)
	target := theta + exerciseOffset

	administered := make(map[int]struct{}, len(in.Records))
	for _, r := range in.Records {
		administered[r.ItemID] = struct{}{}
	}

	weak := weakDimensions(scoreDimensions(in.Records))
	recs := make([]Recommendation, 0, len(weak))
	total := 0
	keys := make([]string, 0, len(weak))
	for _, ds := range weak {
		priority := planPriority(ds.Score)
		exercises := buildExercises(b, in.SessionID, ds.Dimension, target, exerciseCount(priority), administered)
		guidance := dimensionTips[ds.Dimension]
		recs = append(recs, Recommendation{
			Dimension: ds.Dimension,
			Label:     ds.Label,
			LabelKo:   ds.LabelKo,
			Color:     ds.Color,
			Score:     ds.Score,
			Priority:  priority,
			TipKo:     guidance.ko,
			TipEn:     guidance.en,
			Exercises: exercises,
		})
		total += len(exercises)
		keys = append(keys, ds.Dimension)
	}

	return &StudyPlan{
		Recommendations: recs,
		TotalExercises:  total,
		WeakDimensions:  keys,
		WeeklyPlan:      buildWeeklyPlan(recs),
	}
}

// weakDimensions picks the dimensions that need work, weakest first.
// Unscored active dimensions count as weakest of all: nothing is known
// about them. When every dimension clears the gate, the lowest scorer
// is still recommended so the plan never comes back empty-handed.
func weakDimensions(scores []DimensionScore) []DimensionScore {
	var weak []DimensionScore
	for _, ds := range scores {
		if len(dimensionTypes(ds.Dimension)) == 0 {
			continue
		}
		if ds.Score == nil || *ds.Score < planGateScore {
			weak = append(weak, ds)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		si, sj := weak[i].Score, weak[j].Score
		switch {
		case si == nil:
			return sj != nil
		case sj == nil:
			return false
		default:
			return *si < *sj
		}
	})
	if len(weak) > 0 {
		return weak
	}

	var lowest *DimensionScore
	for i := range scores {
		ds := &scores[i]
		if ds.Score == nil || len(dimensionTypes(ds.Dimension)) == 0 {
			continue
		}
		if lowest == nil || *ds.Score < *lowest.Score {
			lowest = ds
		}
	}
	if lowest == nil {
		return nil
	}
	return []DimensionScore{*lowest}
}

func planPriority(score *int) string {
	switch {
	case score == nil:
		return priorityHigh
	case *score < planHighScore:
		return priorityHigh
	case *score < planMediumScore:
		return priorityMedium
	default:
		return priorityReview
	}
}

func exerciseCount(priority string) int {
	switch priority {
	case priorityHigh:
		return 5
	case priorityMedium:
		return 4
	default:
		return 3
	}
}

type exerciseCandidate struct {
	item *bank.Item
	t    bank.QuestionType
	dist float64
}

// collectExerciseCandidates ranks the dimension's items by distance
// from the target difficulty, one entry per item under its closest
// supported type. Items the session already administered are skipped
// so practice material stays fresh.
func collectExerciseCandidates(b *bank.Bank, dim string, target float64, exclude map[int]struct{}) []exerciseCandidate {
	types := dimensionTypes(dim)
	items := b.Items()
	cands := make([]exerciseCandidate, 0, len(items))
	for i := range items {
		it := &items[i]
		if _, done := exclude[it.ID]; done {
			continue
		}
		var best exerciseCandidate
		found := false
		for _, t := range types {
			if !b.Supports(it.ID, t) {
				continue
			}
			d := math.Abs(it.EffectiveB(t) - target)
			if !found || d < best.dist {
				best = exerciseCandidate{item: it, t: t, dist: d}
				found = true
			}
		}
		if found {
			cands = append(cands, best)
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].item.ID < cands[j].item.ID
	})
	return cands
}

func buildExercises(b *bank.Bank, sessionID, dim string, target float64, count int, exclude map[int]struct{}) []Exercise {
	out := make([]Exercise, 0, count)
	for _, c := range collectExerciseCandidates(b, dim, target, exclude) {
		if len(out) >= count {
			break
		}
		seed := bank.RenderSeed(sessionID, c.item.ID, c.t)
		r, err := b.Render(c.item.ID, c.t, seed)
		if err != nil {
			// The renderer revoked the capability; the next candidate
			// takes the slot.
			continue
		}
		out = append(out, newExercise(dim, len(out), r))
	}
	return out
}

func newExercise(dim string, idx int, r *bank.Rendered) Exercise {
	correct := 0
	for i, opt := range r.Options {
		if opt == r.CorrectAnswer {
			correct = i
			break
		}
	}
	return Exercise{
		ID:           fmt.Sprintf("%s-%d", exerciseIDPrefix[dim], idx),
		Dimension:    dim,
		Word:         r.Word,
		CEFR:         r.CEFR,
		QuestionType: r.QuestionType,
		Prompt:       r.Stem,
		Options:      r.Options,
		CorrectIndex: correct,
		Explanation:  r.Explanation,
	}
}

// buildWeeklyPlan lays the recommendations out over four weeks: the
// worst dimension first, reinforcement second, moderate areas third,
// and a combined review plus retest in week four.
func buildWeeklyPlan(recs []Recommendation) []WeekPlan {
	byPriority := func(p string) []Recommendation {
		var out []Recommendation
		for _, r := range recs {
			if r.Priority == p {
				out = append(out, r)
			}
		}
		return out
	}
	high := byPriority(priorityHigh)
	medium := byPriority(priorityMedium)
	review := byPriority(priorityReview)

	week := func(n int, focus []Recommendation, daily int, ko, en string) WeekPlan {
		w := WeekPlan{
			Week:          n,
			Focus:         make([]string, 0, len(focus)),
			FocusLabels:   make([]string, 0, len(focus)),
			DailyTarget:   daily,
			DescriptionKo: ko,
			DescriptionEn: en,
		}
		for _, r := range focus {
			w.Focus = append(w.Focus, r.Dimension)
			w.FocusLabels = append(w.FocusLabels, r.LabelKo)
		}
		return w
	}

	var w1 []Recommendation
	for _, group := range [][]Recommendation{high, medium, review} {
		if len(group) > 0 {
			w1 = group[:1]
			break
		}
	}

	weeks := make([]WeekPlan, 0, 4)
	if len(w1) > 0 {
		weeks = append(weeks, week(1, w1, 5, "약점 차원 집중 학습", "Focus on weakest dimension"))
	}

	switch {
	case len(high) > 1:
		weeks = append(weeks, week(2, high[1:], 5, "약점 보강 학습", "Reinforce weak areas"))
	case len(w1) > 0 && len(medium) > 0 && medium[0].Dimension != w1[0].Dimension:
		weeks = append(weeks, week(2, medium[:1], 5, "약점 보강 학습", "Reinforce weak areas"))
	case len(w1) > 0:
		weeks = append(weeks, week(2, w1, 4, "지속 연습", "Continue practice"))
	}

	w3 := medium
	if len(w3) == 0 {
		w3 = review
	}
	if len(w3) == 0 && len(high) > 0 {
		w3 = high[:1]
	}
	if len(w3) > 2 {
		w3 = w3[:2]
	}
	if len(w3) > 0 {
		weeks = append(weeks, week(3, w3, 4, "중간 영역 보강", "Strengthen moderate areas"))
	}

	w4 := recs
	if len(w4) > 3 {
		w4 = w4[:3]
	}
	weeks = append(weeks, week(4, w4, 3, "종합 복습 + 재테스트", "Comprehensive review + retest"))

	return weeks
}
