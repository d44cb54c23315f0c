// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package exposure

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/config"
)

func analysisItems() []bank.Item {
	return []bank.Item{
		{ID: 0, Word: "alpha", CEFR: "A1", B: 0.0},
		{ID: 1, Word: "bravo", CEFR: "A1", B: -2.0},
		{ID: 2, Word: "charlie", CEFR: "B1", B: 1.0},
		{ID: 3, Word: "delta", CEFR: "B1", B: 2.0},
	}
}

func TestAnalyzeNoSessions(t *testing.T) {
	t.Parallel()

	c := New(4, testConfig())
	r := c.Analyze(analysisItems())
	if r.Message == "" {
		t.Error("expected placeholder message before any sessions")
	}
	if r.PoolSize != 4 {
		t.Errorf("pool size = %d, want 4", r.PoolSize)
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	c := New(4, testConfig())
	for i := 0; i < 100; i++ {
		c.SessionStarted()
	}
	record := func(id, n int) {
		for i := 0; i < n; i++ {
			c.RecordAdministration(id)
		}
	}
	record(0, 30) // rate 0.30, over the 0.25 cap
	record(1, 10) // rate 0.10
	record(3, 1)  // rate 0.01, barely effective

	r := c.Analyze(analysisItems())

	if r.ItemsUsed != 3 || r.ItemsNeverUsed != 1 {
		t.Errorf("used/never = %d/%d, want 3/1", r.ItemsUsed, r.ItemsNeverUsed)
	}
	if r.UtilizationPct != 75 {
		t.Errorf("utilization = %v, want 75", r.UtilizationPct)
	}
	if r.EffectivePoolSize != 3 {
		t.Errorf("effective pool = %d, want 3", r.EffectivePoolSize)
	}
	if r.MaxRate != 0.30 {
		t.Errorf("max rate = %v, want 0.30", r.MaxRate)
	}
	if math.Abs(r.MeanRate-0.1025) > 1e-9 {
		t.Errorf("mean rate = %v, want 0.1025", r.MeanRate)
	}
	// Sorted rates [0, 0.01, 0.1, 0.3]: Gini = (2*1.52 - 5*0.41) / (4*0.41).
	if math.Abs(r.Gini-0.99/1.64) > 1e-9 {
		t.Errorf("gini = %v, want %v", r.Gini, 0.99/1.64)
	}

	if r.OverExposedCount != 1 || len(r.OverExposed) != 1 {
		t.Fatalf("over-exposed = %d (%d listed), want 1", r.OverExposedCount, len(r.OverExposed))
	}
	if r.OverExposed[0].ItemID != 0 || r.OverExposed[0].Word != "alpha" {
		t.Errorf("over-exposed item = %+v, want alpha", r.OverExposed[0])
	}

	a1 := r.ByCEFR["A1"]
	if a1.Count != 2 || a1.MaxRate != 0.30 || a1.UsedPct != 100 {
		t.Errorf("A1 stats = %+v", a1)
	}
	b1 := r.ByCEFR["B1"]
	if b1.Count != 2 || b1.UsedPct != 50 {
		t.Errorf("B1 stats = %+v", b1)
	}

	if band := r.ByDifficulty["medium"]; band.Count != 1 || band.MeanRate != 0.30 {
		t.Errorf("medium band = %+v", band)
	}
	if band := r.ByDifficulty["hard"]; band.UsedPct != 0 {
		t.Errorf("hard band = %+v, want unused", band)
	}

	found := false
	for _, rec := range r.Recommendations {
		if strings.Contains(rec, "exceed target exposure rate") {
			found = true
		}
	}
	if !found {
		t.Errorf("recommendations %v missing over-exposure warning", r.Recommendations)
	}
}

func TestGini(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sorted []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"all zero", []float64{0, 0, 0}, 0},
		{"perfect equality", []float64{0.2, 0.2, 0.2, 0.2}, 0},
		{"one takes all", []float64{0, 0, 0, 1}, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := gini(tt.sorted); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("gini(%v) = %v, want %v", tt.sorted, got, tt.want)
			}
		})
	}
}

func TestExpansionNeedsInsufficientData(t *testing.T) {
	t.Parallel()

	c := New(4, testConfig())
	for i := 0; i < 50; i++ {
		c.SessionStarted()
	}
	r := c.ExpansionNeeds(analysisItems())
	if r.Message == "" || r.MinSessions != minAnalysisRuns {
		t.Errorf("expected insufficient-data response, got %+v", r)
	}
}

func TestExpansionNeeds(t *testing.T) {
	t.Parallel()

	items := []bank.Item{
		{ID: 0, Word: "hot1", CEFR: "B2", B: 0.4},
		{ID: 1, Word: "hot2", CEFR: "B2", B: 0.6},
		{ID: 2, Word: "cold", CEFR: "A1", B: -1.0},
	}
	c := New(3, testConfig())
	for i := 0; i < 100; i++ {
		c.SessionStarted()
	}
	for i := 0; i < 30; i++ {
		c.RecordAdministration(0)
	}
	for i := 0; i < 20; i++ {
		c.RecordAdministration(1)
	}

	r := c.ExpansionNeeds(items)
	if len(r.HighDemandBands) != 1 {
		t.Fatalf("high-demand bands = %v, want one", r.HighDemandBands)
	}
	band := r.HighDemandBands[0]
	if band.DifficultyRange != "0.5 to 1.0" || band.ItemCount != 2 {
		t.Errorf("band = %+v", band)
	}
	if math.Abs(band.MeanExposure-0.25) > 1e-9 {
		t.Errorf("band mean exposure = %v, want 0.25", band.MeanExposure)
	}

	need, ok := r.CEFRNeeds["B2"]
	if !ok {
		t.Fatalf("CEFR needs %v missing B2", r.CEFRNeeds)
	}
	if need.CurrentItems != 2 || need.SuggestedAdditional != 10 {
		t.Errorf("B2 need = %+v", need)
	}
	if _, ok := r.CEFRNeeds["A1"]; ok {
		t.Error("A1 flagged for expansion despite zero demand")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.ExposureConfig{
		MaxRate:       0.25,
		Relaxation:    0.10,
		StorePath:     t.TempDir(),
		FlushInterval: time.Minute,
	}

	c, err := Open(6, cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for i := 0; i < 7; i++ {
		c.SessionStarted()
	}
	c.RecordAdministration(2)
	c.RecordAdministration(2)
	c.RecordAdministration(5)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	restored, err := Open(6, cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer restored.Close() //nolint:errcheck // test cleanup

	if got := restored.TotalSessions(); got != 7 {
		t.Errorf("restored sessions = %d, want 7", got)
	}
	if got := restored.Count(2); got != 2 {
		t.Errorf("restored Count(2) = %d, want 2", got)
	}
	if got := restored.Count(5); got != 1 {
		t.Errorf("restored Count(5) = %d, want 1", got)
	}
	if restored.LastAdministered(2).IsZero() {
		t.Error("restored last-administered lost")
	}
}

func TestSnapshotSmallerBank(t *testing.T) {
	t.Parallel()

	cfg := config.ExposureConfig{
		MaxRate:    0.25,
		Relaxation: 0.10,
		StorePath:  t.TempDir(),
	}

	c, err := Open(6, cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	c.SessionStarted()
	c.RecordAdministration(5)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// A shrunk vocabulary restores only the overlapping prefix.
	small, err := Open(3, cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer small.Close() //nolint:errcheck // test cleanup

	if got := small.TotalSessions(); got != 1 {
		t.Errorf("restored sessions = %d, want 1", got)
	}
	if got := small.Count(5); got != 0 {
		t.Errorf("Count(5) on smaller bank = %d, want 0", got)
	}
}
