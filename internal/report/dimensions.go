// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package report

import (
	"math"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/cat"
)

// minDimensionItems is the smallest sample a dimension percentage is
// reported on. Below it the score stays null.
const minDimensionItems = 3

// DimensionScore is the correct/total breakdown for one vocabulary
// knowledge dimension. Score is a 0-100 percentage, nil when the
// dimension was probed by fewer than minDimensionItems responses.
type DimensionScore struct {
	Dimension string `json:"dimension"`
	Label     string `json:"label"`
	LabelKo   string `json:"label_ko"`
	Color     string `json:"color"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Score     *int   `json:"score"`
}

type dimensionMeta struct {
	key     string
	label   string
	labelKo string
	color   string
}

// dimensions lists the five diagnostic dimensions in display order.
// Form and pragmatic have no question types yet; their scores stay
// null and the study plan passes over them.
var dimensions = []dimensionMeta{
	{key: "semantic", label: "Semantic", labelKo: "의미 이해", color: "#3b82f6"},
	{key: "contextual", label: "Contextual", labelKo: "문맥 사용", color: "#10b981"},
	{key: "form", label: "Form", labelKo: "형태 변환", color: "#f59e0b"},
	{key: "relational", label: "Relational", labelKo: "관계어", color: "#ef4444"},
	{key: "pragmatic", label: "Pragmatic", labelKo: "화용 맥락", color: "#8b5cf6"},
}

// dimensionTypes returns the question types that probe the given
// dimension. Reserved dimensions return an empty slice.
func dimensionTypes(key string) []bank.QuestionType {
	var out []bank.QuestionType
	for _, t := range bank.AllQuestionTypes {
		if t.Dimension() == key {
			out = append(out, t)
		}
	}
	return out
}

// scoreDimensions computes the per-dimension breakdown of one session's
// responses.
func scoreDimensions(records []cat.ResponseRecord) []DimensionScore {
	type tally struct{ correct, total int }
	stats := make(map[string]*tally, len(dimensions))
	for _, d := range dimensions {
		stats[d.key] = &tally{}
	}
	for _, r := range records {
		st, ok := stats[r.QuestionType.Dimension()]
		if !ok {
			continue
		}
		st.total++
		if r.IsCorrect {
			st.correct++
		}
	}

	out := make([]DimensionScore, 0, len(dimensions))
	for _, d := range dimensions {
		st := stats[d.key]
		ds := DimensionScore{
			Dimension: d.key,
			Label:     d.label,
			LabelKo:   d.labelKo,
			Color:     d.color,
			Correct:   st.correct,
			Total:     st.total,
		}
		if st.total >= minDimensionItems {
			pct := int(math.Round(float64(st.correct) / float64(st.total) * 100))
			ds.Score = &pct
		}
		out = append(out, ds)
	}
	return out
}
