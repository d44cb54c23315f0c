// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package report derives learner-facing diagnostics from terminal
// session state: scale scores with CEFR and curriculum mappings, topic
// and dimension breakdowns, a personalized study plan, the knowledge
// matrix, and cross-session progress. Everything here is a pure
// function of the archived session plus the item bank.
package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/cat"
	"github.com/dwkang/lexicat/internal/irt"
)

// Status qualifies how much trust a report deserves.
type Status string

const (
	// StatusComplete marks a test that ran to a measurement-based stop.
	StatusComplete Status = "complete"
	// StatusPartial marks a test cut short with enough responses to score.
	StatusPartial Status = "partial"
	// StatusInsufficientData marks a test with too little usable data.
	// The numbers are still reported but should be read as rough.
	StatusInsufficientData Status = "insufficient_data"
)

// partialFloor is the smallest response count an expired session can
// still be summarized from.
const partialFloor = 5

// defaultMinItems mirrors the engine's minimum test length when the
// caller leaves Input.MinItems unset.
const defaultMinItems = 15

// Topic analysis thresholds: a topic needs topicMinItems responses to
// be judged at all, and at most topicListMax topics appear per list.
const (
	topicMinItems   = 3
	topicListMax    = 5
	topicStrongRate = 0.75
	topicWeakRate   = 0.50
)

// Input is the terminal session state a report is derived from. It is
// satisfied either by a live session at termination or by a rehydrated
// archive row.
type Input struct {
	SessionID string
	Theta     float64
	SE        float64
	Reason    cat.TerminationReason
	Records   []cat.ResponseRecord

	// MinItems is the configured minimum test length, used to decide
	// whether a pool-exhausted run still counts as a partial result.
	// Zero selects the default.
	MinItems int
}

// TopicStat is the per-topic accuracy entry in the strengths and
// weaknesses lists.
type TopicStat struct {
	Topic   string  `json:"topic"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"`
}

// CEFRBandStat is the per-band accuracy over the items actually
// administered.
type CEFRBandStat struct {
	CEFR    string  `json:"cefr"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"`
}

// Report is the full diagnostic result for one terminated session.
type Report struct {
	Status            Status                `json:"status"`
	TerminationReason cat.TerminationReason `json:"termination_reason"`

	Theta       float64 `json:"theta"`
	SE          float64 `json:"se"`
	Reliability float64 `json:"reliability"`

	CEFRLevel         string             `json:"cefr_level"`
	CEFRProbabilities map[string]float64 `json:"cefr_probabilities"`
	CurriculumLevel   string             `json:"curriculum_level"`
	VocabSizeEstimate int                `json:"vocab_size_estimate"`

	TotalItems   int     `json:"total_items"`
	TotalCorrect int     `json:"total_correct"`
	Accuracy     float64 `json:"accuracy"`

	TopicStrengths  []TopicStat      `json:"topic_strengths"`
	TopicWeaknesses []TopicStat      `json:"topic_weaknesses"`
	CEFRDetail      []CEFRBandStat   `json:"cefr_detail"`
	Recommendations []string         `json:"recommendations"`
	DimensionScores []DimensionScore `json:"dimension_scores"`

	OxfordCoverage      float64 `json:"oxford_coverage"`
	EstimatedVocabulary int     `json:"estimated_vocabulary"`
}

// Build assembles the diagnostic report for one terminated session.
func Build(b *bank.Bank, in Input) *Report {
	theta, se := resolveEstimate(in)
	n := len(in.Records)
	correct := 0
	for _, r := range in.Records {
		if r.IsCorrect {
			correct++
		}
	}
	accuracy := 0.0
	if n > 0 {
		accuracy = float64(correct) / float64(n)
	}

	level := CEFRLevel(theta)
	strengths, weaknesses := topicBreakdown(b, in.Records)

	return &Report{
		Status:            classify(in.Reason, n, minItemsOf(in)),
		TerminationReason: in.Reason,

		Theta:       theta,
		SE:          se,
		Reliability: irt.Reliability(se),

		CEFRLevel:         level,
		CEFRProbabilities: cefrProbabilities(theta, se),
		CurriculumLevel:   CurriculumLevel(theta),
		VocabSizeEstimate: VocabSize(b, theta),

		TotalItems:   n,
		TotalCorrect: correct,
		Accuracy:     accuracy,

		TopicStrengths:  strengths,
		TopicWeaknesses: weaknesses,
		CEFRDetail:      cefrBreakdown(b, in.Records),
		Recommendations: recommendations(level, weaknesses),
		DimensionScores: scoreDimensions(in.Records),

		OxfordCoverage:      oxfordCoverage(b, theta),
		EstimatedVocabulary: cefrVocabEstimates[level],
	}
}

func minItemsOf(in Input) int {
	if in.MinItems > 0 {
		return in.MinItems
	}
	return defaultMinItems
}

// classify decides how far the terminated session can be trusted. Rule
// stops give a complete report; everything else depends on how much
// data survived.
func classify(reason cat.TerminationReason, n, minItems int) Status {
	switch reason {
	case cat.ReasonMaxItems, cat.ReasonSEThreshold, cat.ReasonConvergence:
		return StatusComplete
	case cat.ReasonPoolExhausted:
		if n >= minItems {
			return StatusPartial
		}
		return StatusInsufficientData
	case cat.ReasonCorrupted:
		return StatusInsufficientData
	default:
		// Expired sessions and anything unrecognized.
		if n >= partialFloor {
			return StatusPartial
		}
		return StatusInsufficientData
	}
}

// resolveEstimate returns a finite ability estimate for report math. A
// corrupted posterior leaves NaN in the terminal state; the last finite
// snapshot is the best remaining evidence, and the prior covers the
// case of no usable snapshots at all.
func resolveEstimate(in Input) (theta, se float64) {
	if finite(in.Theta) && finite(in.SE) {
		return in.Theta, in.SE
	}
	for i := len(in.Records) - 1; i >= 0; i-- {
		r := in.Records[i]
		if finite(r.ThetaAfter) && finite(r.SEAfter) {
			return r.ThetaAfter, r.SEAfter
		}
	}
	return 0, 1
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type accTally struct {
	correct int
	total   int
}

func (t accTally) rate() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.correct) / float64(t.total)
}

// topicBreakdown splits the administered topics into strengths and
// weaknesses. Only topics with enough responses qualify; the lists hold
// the top and bottom performers past the respective rate cutoffs.
func topicBreakdown(b *bank.Bank, records []cat.ResponseRecord) (strengths, weaknesses []TopicStat) {
	tallies := make(map[string]*accTally)
	for _, r := range records {
		it, ok := b.ByID(r.ItemID)
		if !ok {
			continue
		}
		t := tallies[it.Topic]
		if t == nil {
			t = &accTally{}
			tallies[it.Topic] = t
		}
		t.total++
		if r.IsCorrect {
			t.correct++
		}
	}

	stats := make([]TopicStat, 0, len(tallies))
	for topic, t := range tallies {
		if t.total < topicMinItems {
			continue
		}
		stats = append(stats, TopicStat{Topic: topic, Correct: t.correct, Total: t.total, Rate: t.rate()})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Rate != stats[j].Rate {
			return stats[i].Rate > stats[j].Rate
		}
		return stats[i].Topic < stats[j].Topic
	})
	for _, s := range stats {
		if s.Rate < topicStrongRate || len(strengths) >= topicListMax {
			break
		}
		strengths = append(strengths, s)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Rate != stats[j].Rate {
			return stats[i].Rate < stats[j].Rate
		}
		return stats[i].Topic < stats[j].Topic
	})
	for _, s := range stats {
		if s.Rate > topicWeakRate || len(weaknesses) >= topicListMax {
			break
		}
		weaknesses = append(weaknesses, s)
	}
	return strengths, weaknesses
}

// cefrBreakdown tallies accuracy per CEFR band over the administered
// items, in band order. Items whose band is not one of the five levels
// land in a trailing bucket.
func cefrBreakdown(b *bank.Bank, records []cat.ResponseRecord) []CEFRBandStat {
	tallies := make(map[string]*accTally)
	for _, r := range records {
		it, ok := b.ByID(r.ItemID)
		if !ok {
			continue
		}
		band := it.CEFR
		if bandOf(band) < 0 {
			band = "unknown"
		}
		t := tallies[band]
		if t == nil {
			t = &accTally{}
			tallies[band] = t
		}
		t.total++
		if r.IsCorrect {
			t.correct++
		}
	}

	out := make([]CEFRBandStat, 0, len(tallies))
	appendBand := func(band string) {
		t, ok := tallies[band]
		if !ok {
			return
		}
		out = append(out, CEFRBandStat{CEFR: band, Correct: t.correct, Total: t.total, Rate: t.rate()})
	}
	for _, band := range cefrBands {
		appendBand(band.level)
	}
	appendBand("unknown")
	return out
}

// recommendations renders the Korean study guidance lines: one per
// weak topic, plus a level-wide pointer for learners at the edges of
// the scale.
func recommendations(level string, weaknesses []TopicStat) []string {
	recs := make([]string, 0, len(weaknesses)+1)
	for _, w := range weaknesses {
		recs = append(recs, fmt.Sprintf("'%s' 영역 어휘 학습 강화 (정답률 %d%%)", w.Topic, int(w.Rate*100)))
	}
	switch level {
	case "A1", "A2":
		recs = append(recs, "기초 고빈도 어휘(A1-A2) 반복 학습 권장")
	case "B2", "C1":
		recs = append(recs, "학술/전문 어휘(B2-C1) 확장 학습 권장")
	}
	return recs
}
