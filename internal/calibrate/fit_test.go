// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package calibrate

import (
	"testing"
)

func TestItemFitInsufficient(t *testing.T) {
	t.Parallel()

	h := calibrationBank(t, 3)
	it, _ := h.Current().ByID(0)

	st := ItemFit(it, balancedObs(it.B, 2))
	if st.Flag != FitInsufficient {
		t.Errorf("Flag = %q, want insufficient_data under five responses", st.Flag)
	}
	if st.Infit != nil || st.Outfit != nil {
		t.Error("insufficient data still produced statistics")
	}
	if st.Responses != 4 {
		t.Errorf("Responses = %d, want 4", st.Responses)
	}
}

func TestItemFitBalanced(t *testing.T) {
	t.Parallel()

	h := calibrationBank(t, 3)
	it, _ := h.Current().ByID(1) // b = 0.0

	// Correct/incorrect pairs at the difficulty point have p = 0.5 and
	// squared standardized residual exactly 1, so both mean-squares are 1.
	st := ItemFit(it, balancedObs(it.B, 10))
	if st.Flag != FitOK {
		t.Fatalf("Flag = %q, want ok", st.Flag)
	}
	if st.Infit == nil || *st.Infit != 1.0 {
		t.Errorf("Infit = %v, want exactly 1.0", st.Infit)
	}
	if st.Outfit == nil || *st.Outfit != 1.0 {
		t.Errorf("Outfit = %v, want exactly 1.0", st.Outfit)
	}
}

func TestItemFitUnderfit(t *testing.T) {
	t.Parallel()

	h := calibrationBank(t, 3)
	it, _ := h.Current().ByID(1) // a = 1.0, b = 0.0

	// Guttman-reversed responses: failures from strong learners and
	// successes from weak ones blow the residuals up.
	var obs []Observation
	for i := 0; i < 3; i++ {
		obs = append(obs, Observation{Theta: 3.0, Correct: false})
		obs = append(obs, Observation{Theta: -3.0, Correct: true})
	}
	st := ItemFit(it, obs)
	if st.Flag != FitUnderfit {
		t.Errorf("Flag = %q, want underfit", st.Flag)
	}
	if st.Outfit == nil || *st.Outfit <= underfitMNSQ {
		t.Errorf("Outfit = %v, want far above %v", st.Outfit, underfitMNSQ)
	}
}

func TestItemFitOverfit(t *testing.T) {
	t.Parallel()

	h := calibrationBank(t, 3)
	it, _ := h.Current().ByID(1)

	// Responses placed where the model is near-certain and always
	// matching it leave almost no residual.
	var obs []Observation
	for i := 0; i < 3; i++ {
		obs = append(obs, Observation{Theta: 3.0, Correct: true})
		obs = append(obs, Observation{Theta: -3.0, Correct: false})
	}
	st := ItemFit(it, obs)
	if st.Flag != FitOverfit {
		t.Errorf("Flag = %q, want overfit", st.Flag)
	}
	if st.Infit == nil || *st.Infit >= overfitMNSQ {
		t.Errorf("Infit = %v, want under %v", st.Infit, overfitMNSQ)
	}
}

func TestClassifyFit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		infit  float64
		outfit float64
		want   string
	}{
		{1.0, 1.0, FitOK},
		{1.29, 0.71, FitOK},
		{1.31, 1.0, FitUnderfit},
		{1.0, 1.31, FitUnderfit},
		{0.69, 1.0, FitOverfit},
		{1.0, 0.69, FitOverfit},
		// Underfit wins when both thresholds trip.
		{0.5, 1.5, FitUnderfit},
	}
	for _, tt := range tests {
		if got := classifyFit(tt.infit, tt.outfit); got != tt.want {
			t.Errorf("classifyFit(%v, %v) = %q, want %q", tt.infit, tt.outfit, got, tt.want)
		}
	}
}

func TestSummarizeFit(t *testing.T) {
	t.Parallel()

	fp := func(v float64) *float64 { return &v }
	stats := []FitStat{
		{ItemID: 0, Infit: fp(1.5), Outfit: fp(1.6), Flag: FitUnderfit},
		{ItemID: 1, Infit: fp(2.0), Outfit: fp(2.2), Flag: FitUnderfit},
		{ItemID: 2, Infit: fp(0.5), Outfit: fp(0.6), Flag: FitOverfit},
		{ItemID: 3, Infit: fp(1.0), Outfit: fp(1.0), Flag: FitOK},
		{ItemID: 4, Flag: FitInsufficient},
	}
	s := summarizeFit(stats)

	if s.Analyzed != 4 || s.Insufficient != 1 {
		t.Errorf("analyzed/insufficient = %d/%d, want 4/1", s.Analyzed, s.Insufficient)
	}
	if s.UnderfitCnt != 2 || s.OverfitCnt != 1 {
		t.Errorf("underfit/overfit counts = %d/%d, want 2/1", s.UnderfitCnt, s.OverfitCnt)
	}
	if s.MeanInfit == nil || *s.MeanInfit != 1.25 {
		t.Errorf("MeanInfit = %v, want 1.25", s.MeanInfit)
	}

	// Worst first.
	if len(s.Underfit) != 2 || s.Underfit[0].ItemID != 1 {
		t.Errorf("Underfit = %+v, want item 1 leading", s.Underfit)
	}
	if len(s.Overfit) != 1 || s.Overfit[0].ItemID != 2 {
		t.Errorf("Overfit = %+v, want item 2", s.Overfit)
	}
}

func TestSummarizeFitEmpty(t *testing.T) {
	t.Parallel()

	s := summarizeFit(nil)
	if s.Analyzed != 0 || s.MeanInfit != nil {
		t.Errorf("empty summary = %+v, want zero values", s)
	}
}
