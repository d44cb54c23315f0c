// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package report

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Trend labels for longitudinal reports.
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// trendDelta is the mean-ability shift that separates a real trend
// from noise; trendStep is the softer two-session variant.
const (
	trendDelta = 0.2
	trendStep  = 0.1
)

// SessionSummary is the slim per-session row longitudinal analysis
// consumes, drawn from archived reports.
type SessionSummary struct {
	SessionID  string    `json:"session_id"`
	StartedAt  time.Time `json:"started_at"`
	Theta      float64   `json:"theta"`
	SE         float64   `json:"se"`
	CEFRLevel  string    `json:"cefr_level"`
	VocabSize  int       `json:"vocab_size_estimate"`
	TotalItems int       `json:"total_items"`
	Accuracy   float64   `json:"accuracy"`
}

// Longitudinal summarizes ability movement across a learner's test
// history.
type Longitudinal struct {
	Sessions    int       `json:"sessions"`
	ThetaTrend  []float64 `json:"theta_trend"`
	LatestTheta *float64  `json:"latest_theta"`
	ThetaChange *float64  `json:"theta_change"`
	LatestCEFR  string    `json:"latest_cefr,omitempty"`
	VocabTrend  []int     `json:"vocab_trend"`
	VocabChange *int      `json:"vocab_change"`
	Trend       string    `json:"trend"`
}

// BuildLongitudinal derives the progress view from a learner's session
// history, ordered oldest to newest. With three or more sessions the
// trend compares the means of the first and last three; with exactly
// two it asks for a clear single step; fewer leave it undecided.
func BuildLongitudinal(sessions []SessionSummary) *Longitudinal {
	out := &Longitudinal{Sessions: len(sessions), Trend: TrendInsufficientData}
	if len(sessions) == 0 {
		return out
	}

	thetas := make([]float64, len(sessions))
	vocab := make([]int, len(sessions))
	for i, s := range sessions {
		thetas[i] = s.Theta
		vocab[i] = s.VocabSize
	}
	out.ThetaTrend = thetas
	out.VocabTrend = vocab
	latest := thetas[len(thetas)-1]
	out.LatestTheta = &latest
	out.LatestCEFR = sessions[len(sessions)-1].CEFRLevel

	if len(sessions) >= 2 {
		tchange := thetas[len(thetas)-1] - thetas[0]
		out.ThetaChange = &tchange
		vchange := vocab[len(vocab)-1] - vocab[0]
		out.VocabChange = &vchange
	}

	switch {
	case len(thetas) >= 3:
		diff := stat.Mean(thetas[len(thetas)-3:], nil) - stat.Mean(thetas[:3], nil)
		switch {
		case diff > trendDelta:
			out.Trend = TrendImproving
		case diff < -trendDelta:
			out.Trend = TrendDeclining
		default:
			out.Trend = TrendStable
		}
	case len(thetas) == 2:
		if thetas[1] > thetas[0]+trendStep {
			out.Trend = TrendImproving
		} else {
			out.Trend = TrendStable
		}
	}
	return out
}
