// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package exposure

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/dwkang/lexicat/internal/bank"
)

// Pool health thresholds for the analysis report.
const (
	effectiveRate   = 0.01 // minimum rate to count toward the effective pool
	highDemandRate  = 0.15 // band mean rate suggesting the band needs more items
	cefrDemandRate  = 0.10 // level mean rate suggesting the level needs more items
	minAnalysisRuns = 100  // sessions before expansion analysis is meaningful
)

// OverExposedItem describes one item past the exposure target.
type OverExposedItem struct {
	ItemID     int     `json:"item_id"`
	Word       string  `json:"word"`
	Rate       float64 `json:"rate"`
	Count      uint64  `json:"count"`
	Difficulty float64 `json:"difficulty_b"`
	CEFR       string  `json:"cefr"`
}

// LevelStats summarizes exposure for one CEFR level.
type LevelStats struct {
	Count    int     `json:"count"`
	MeanRate float64 `json:"mean_rate"`
	MaxRate  float64 `json:"max_rate"`
	UsedPct  float64 `json:"used_pct"`
}

// BandStats summarizes exposure for one difficulty band.
type BandStats struct {
	Count    int     `json:"count"`
	MeanRate float64 `json:"mean_rate"`
	UsedPct  float64 `json:"used_pct"`
}

// Report is the pool health analysis served by the ops surface.
type Report struct {
	TotalSessions uint64 `json:"total_sessions"`
	PoolSize      int    `json:"pool_size"`
	Message       string `json:"message,omitempty"`

	ItemsUsed         int     `json:"items_used"`
	ItemsNeverUsed    int     `json:"items_never_used"`
	UtilizationPct    float64 `json:"utilization_pct"`
	EffectivePoolSize int     `json:"effective_pool_size"`

	MeanRate   float64 `json:"mean_exposure_rate"`
	MedianRate float64 `json:"median_exposure_rate"`
	MaxRate    float64 `json:"max_exposure_rate"`
	StdRate    float64 `json:"std_exposure_rate"`
	Gini       float64 `json:"gini_coefficient"`

	OverExposedCount int                   `json:"over_exposed_count"`
	OverExposed      []OverExposedItem     `json:"over_exposed_items"`
	ByCEFR           map[string]LevelStats `json:"cefr_exposure"`
	ByDifficulty     map[string]BandStats  `json:"difficulty_band_exposure"`
	Recommendations  []string              `json:"recommendations"`
}

var difficultyBands = []struct {
	label  string
	lo, hi float64
}{
	{"very_easy", -3.0, -1.5},
	{"easy", -1.5, -0.5},
	{"medium", -0.5, 0.5},
	{"hard", 0.5, 1.5},
	{"very_hard", 1.5, 3.0},
}

// Analyze produces the pool health report over the given items.
func (c *Controller) Analyze(items []bank.Item) *Report {
	sessions := c.sessions.Load()
	r := &Report{
		TotalSessions: sessions,
		PoolSize:      len(items),
	}
	if sessions == 0 {
		r.Message = "No sessions conducted yet"
		return r
	}

	rates := make([]float64, len(items))
	var overExposed []OverExposedItem
	for i := range items {
		it := &items[i]
		count := c.Count(it.ID)
		rate := float64(count) / float64(sessions)
		rates[i] = rate

		switch {
		case count == 0:
			r.ItemsNeverUsed++
		case rate > c.maxRate:
			overExposed = append(overExposed, OverExposedItem{
				ItemID:     it.ID,
				Word:       it.Word,
				Rate:       rate,
				Count:      count,
				Difficulty: it.B,
				CEFR:       it.CEFR,
			})
		}

		if rate > 0 {
			r.ItemsUsed++
		}
		if rate >= effectiveRate {
			r.EffectivePoolSize++
		}
	}

	if len(items) > 0 {
		r.UtilizationPct = float64(r.ItemsUsed) / float64(len(items)) * 100
	}

	sorted := append([]float64(nil), rates...)
	sort.Float64s(sorted)
	r.MeanRate = stat.Mean(sorted, nil)
	r.MedianRate = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	r.MaxRate = sorted[len(sorted)-1]
	r.StdRate = stat.PopStdDev(sorted, nil)
	r.Gini = gini(sorted)

	// Worst offenders first, capped for the report body.
	sort.Slice(overExposed, func(i, j int) bool { return overExposed[i].Rate > overExposed[j].Rate })
	r.OverExposedCount = len(overExposed)
	if len(overExposed) > 20 {
		overExposed = overExposed[:20]
	}
	r.OverExposed = overExposed

	r.ByCEFR = cefrStats(items, rates)
	r.ByDifficulty = bandStats(items, rates)
	r.Recommendations = recommendations(r)
	return r
}

func cefrStats(items []bank.Item, rates []float64) map[string]LevelStats {
	grouped := make(map[string][]float64)
	for i := range items {
		grouped[items[i].CEFR] = append(grouped[items[i].CEFR], rates[i])
	}

	out := make(map[string]LevelStats, len(grouped))
	for cefr, rs := range grouped {
		s := LevelStats{Count: len(rs), MeanRate: stat.Mean(rs, nil)}
		used := 0
		for _, r := range rs {
			if r > s.MaxRate {
				s.MaxRate = r
			}
			if r > 0 {
				used++
			}
		}
		s.UsedPct = float64(used) / float64(len(rs)) * 100
		out[cefr] = s
	}
	return out
}

func bandStats(items []bank.Item, rates []float64) map[string]BandStats {
	out := make(map[string]BandStats, len(difficultyBands))
	for _, band := range difficultyBands {
		var rs []float64
		for i := range items {
			if b := items[i].B; b >= band.lo && b < band.hi {
				rs = append(rs, rates[i])
			}
		}
		if len(rs) == 0 {
			continue
		}
		s := BandStats{Count: len(rs), MeanRate: stat.Mean(rs, nil)}
		used := 0
		for _, r := range rs {
			if r > 0 {
				used++
			}
		}
		s.UsedPct = float64(used) / float64(len(rs)) * 100
		out[band.label] = s
	}
	return out
}

// gini computes the Gini coefficient over non-negative values: 0 is
// perfect equality, 1 is one item taking everything. Input must be
// sorted ascending.
func gini(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	var sum, weighted float64
	for i, v := range sorted {
		sum += v
		weighted += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}
	return (2*weighted - float64(n+1)*sum) / (float64(n) * sum)
}

func recommendations(r *Report) []string {
	var recs []string
	utilization := r.UtilizationPct / 100

	if utilization < 0.3 && r.TotalSessions >= minAnalysisRuns {
		recs = append(recs, fmt.Sprintf(
			"Low pool utilization (%.0f%%). Consider adjusting content balance constraints to allow more diverse item selection.",
			r.UtilizationPct))
	}
	if r.Gini > 0.7 {
		recs = append(recs, fmt.Sprintf(
			"High exposure inequality (Gini=%.2f). A small subset of items dominates. Tighten exposure control.",
			r.Gini))
	}
	if float64(r.OverExposedCount) > float64(r.PoolSize)*0.05 {
		recs = append(recs, fmt.Sprintf(
			"%d items exceed target exposure rate. Recalibrate exposure control parameters.",
			r.OverExposedCount))
	}
	if float64(r.ItemsNeverUsed) > float64(r.PoolSize)*0.5 && r.TotalSessions >= 500 {
		recs = append(recs, fmt.Sprintf(
			"%d items (%.0f%%) never used. Review item parameters, some may have unreachable difficulty levels.",
			r.ItemsNeverUsed, float64(r.ItemsNeverUsed)/float64(r.PoolSize)*100))
	}
	if r.TotalSessions >= 5000 && utilization > 0.8 {
		recs = append(recs,
			"High utilization with many sessions. Consider expanding the item pool with additional question types or vocabulary sources.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Pool health is good. No immediate action needed.")
	}
	return recs
}

// DemandBand is a half-difficulty-unit range whose items are being
// drawn on heavily.
type DemandBand struct {
	DifficultyRange string  `json:"difficulty_range"`
	ItemCount       int     `json:"item_count"`
	MeanExposure    float64 `json:"mean_exposure"`
}

// CEFRNeed quantifies the suggested pool growth for one CEFR level.
type CEFRNeed struct {
	CurrentItems        int     `json:"current_items"`
	MeanExposure        float64 `json:"mean_exposure"`
	SuggestedAdditional int     `json:"suggested_additional"`
}

// ExpansionReport identifies where the pool needs more items.
type ExpansionReport struct {
	TotalSessions uint64 `json:"total_sessions"`
	Message       string `json:"message,omitempty"`
	MinSessions   int    `json:"min_sessions,omitempty"`

	HighDemandBands []DemandBand        `json:"high_demand_difficulty_bands,omitempty"`
	CEFRNeeds       map[string]CEFRNeed `json:"cefr_expansion_needs,omitempty"`
}

// ExpansionNeeds reports difficulty ranges and CEFR levels whose items
// carry disproportionate load, suggesting the pool should grow there.
func (c *Controller) ExpansionNeeds(items []bank.Item) *ExpansionReport {
	sessions := c.sessions.Load()
	if sessions < minAnalysisRuns {
		return &ExpansionReport{
			Message:     "Insufficient data for expansion analysis",
			MinSessions: minAnalysisRuns,
		}
	}

	r := &ExpansionReport{TotalSessions: sessions}

	// Group rates into half-unit difficulty bins.
	bins := make(map[float64][]float64)
	cefrGroups := make(map[string][]float64)
	for i := range items {
		it := &items[i]
		rate := float64(c.Count(it.ID)) / float64(sessions)
		bin := math.Round(it.B*2) / 2
		bins[bin] = append(bins[bin], rate)
		cefrGroups[it.CEFR] = append(cefrGroups[it.CEFR], rate)
	}

	binKeys := make([]float64, 0, len(bins))
	for bin := range bins {
		binKeys = append(binKeys, bin)
	}
	sort.Float64s(binKeys)
	for _, bin := range binKeys {
		rs := bins[bin]
		mean := stat.Mean(rs, nil)
		if mean > highDemandRate {
			r.HighDemandBands = append(r.HighDemandBands, DemandBand{
				DifficultyRange: fmt.Sprintf("%.1f to %.1f", bin, bin+0.5),
				ItemCount:       len(rs),
				MeanExposure:    mean,
			})
		}
	}

	needs := make(map[string]CEFRNeed)
	for cefr, rs := range cefrGroups {
		mean := stat.Mean(rs, nil)
		if mean > cefrDemandRate {
			suggested := len(rs) * 3 / 10
			if suggested < 10 {
				suggested = 10
			}
			needs[cefr] = CEFRNeed{
				CurrentItems:        len(rs),
				MeanExposure:        mean,
				SuggestedAdditional: suggested,
			}
		}
	}
	if len(needs) > 0 {
		r.CEFRNeeds = needs
	}
	return r
}
