// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package report

import (
	"testing"
	"time"
)

func TestBuildLongitudinalEmpty(t *testing.T) {
	t.Parallel()

	l := BuildLongitudinal(nil)
	if l.Sessions != 0 || l.Trend != TrendInsufficientData {
		t.Errorf("empty history = %d sessions trend %q, want 0 and insufficient_data", l.Sessions, l.Trend)
	}
	if l.LatestTheta != nil || l.ThetaChange != nil || l.VocabChange != nil {
		t.Error("empty history carries estimates")
	}
}

func TestBuildLongitudinalSingle(t *testing.T) {
	t.Parallel()

	l := BuildLongitudinal([]SessionSummary{{
		SessionID: "s1",
		StartedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Theta:     -0.3,
		SE:        0.31,
		CEFRLevel: "B1",
		VocabSize: 3100,
	}})
	if l.Sessions != 1 || l.Trend != TrendInsufficientData {
		t.Errorf("single session = %d sessions trend %q, want 1 and insufficient_data", l.Sessions, l.Trend)
	}
	if l.LatestTheta == nil || *l.LatestTheta != -0.3 {
		t.Errorf("LatestTheta = %v, want -0.3", l.LatestTheta)
	}
	if l.LatestCEFR != "B1" {
		t.Errorf("LatestCEFR = %q, want B1", l.LatestCEFR)
	}
	if l.ThetaChange != nil || l.VocabChange != nil {
		t.Error("one session cannot have a change estimate")
	}
	if len(l.ThetaTrend) != 1 || len(l.VocabTrend) != 1 {
		t.Errorf("trend lengths = (%d, %d), want (1, 1)", len(l.ThetaTrend), len(l.VocabTrend))
	}
}

func TestBuildLongitudinalChanges(t *testing.T) {
	t.Parallel()

	l := BuildLongitudinal([]SessionSummary{
		{Theta: -0.5, VocabSize: 2800, CEFRLevel: "A2"},
		{Theta: 0.1, VocabSize: 3600, CEFRLevel: "B1"},
	})
	if l.ThetaChange == nil || *l.ThetaChange != 0.6 {
		t.Errorf("ThetaChange = %v, want 0.6", l.ThetaChange)
	}
	if l.VocabChange == nil || *l.VocabChange != 800 {
		t.Errorf("VocabChange = %v, want 800", l.VocabChange)
	}
	if l.LatestCEFR != "B1" {
		t.Errorf("LatestCEFR = %q, want the newest session's B1", l.LatestCEFR)
	}
}

func TestBuildLongitudinalTrend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		thetas []float64
		want   string
	}{
		{"two clear step up", []float64{0.0, 0.15}, TrendImproving},
		{"two within noise", []float64{0.0, 0.05}, TrendStable},
		{"two small decline", []float64{0.3, 0.25}, TrendStable},
		{"three overlapping windows", []float64{0.0, 0.1, 0.5}, TrendStable},
		{"steady climb", []float64{-1.0, -0.8, -0.5, -0.2, 0.1, 0.3}, TrendImproving},
		{"steady decline", []float64{0.3, 0.1, -0.2, -0.5, -0.8, -1.0}, TrendDeclining},
		{"plateau", []float64{0.0, 0.1, -0.1, 0.05, 0.0, -0.05}, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sessions := make([]SessionSummary, len(tt.thetas))
			for i, th := range tt.thetas {
				sessions[i] = SessionSummary{Theta: th}
			}
			if got := BuildLongitudinal(sessions).Trend; got != tt.want {
				t.Errorf("Trend = %q, want %q", got, tt.want)
			}
		})
	}
}
