// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package calibrate

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/irt"
)

// Fit flags. Mean-squares outside [0.7, 1.3] mark an item as
// misbehaving: underfit items are noisier than the model allows,
// overfit items are too predictable to add information.
const (
	FitOK           = "ok"
	FitUnderfit     = "underfit"
	FitOverfit      = "overfit"
	FitInsufficient = "insufficient_data"
)

const (
	fitMinResponses = 5
	underfitMNSQ    = 1.3
	overfitMNSQ     = 0.7
	fitProbClip     = 1e-6
	fitVarFloor     = 1e-10
	fitListMax      = 20
)

// FitStat holds the infit and outfit mean-squares for one item. The
// statistics stay nil below the minimum response count.
type FitStat struct {
	ItemID    int      `json:"item_id"`
	Word      string   `json:"word"`
	Responses int      `json:"n_responses"`
	Infit     *float64 `json:"infit_mnsq"`
	Outfit    *float64 `json:"outfit_mnsq"`
	Flag      string   `json:"flag"`
}

// FitSummary aggregates fit statistics across a calibration run.
type FitSummary struct {
	Analyzed     int       `json:"analyzed"`
	Insufficient int       `json:"insufficient_data"`
	MeanInfit    *float64  `json:"mean_infit"`
	MeanOutfit   *float64  `json:"mean_outfit"`
	UnderfitCnt  int       `json:"underfit_count"`
	OverfitCnt   int       `json:"overfit_count"`
	Underfit     []FitStat `json:"flagged_underfit"`
	Overfit      []FitStat `json:"flagged_overfit"`
}

// ItemFit computes the fit statistics for one item under its current
// parameters. Infit weights each squared standardized residual by the
// response variance, making it sensitive near the item's difficulty;
// outfit is the raw mean, dominated by surprises far from it.
func ItemFit(it *bank.Item, obs []Observation) FitStat {
	st := FitStat{ItemID: it.ID, Word: it.Word, Responses: len(obs), Flag: FitInsufficient}
	if len(obs) < fitMinResponses {
		return st
	}

	p := irt.Params{A: it.A, B: it.B}
	zsq := make([]float64, 0, len(obs))
	var weighted, varSum float64
	for _, o := range obs {
		prob := irt.Probability(o.Theta, p)
		if prob < fitProbClip {
			prob = fitProbClip
		} else if prob > 1-fitProbClip {
			prob = 1 - fitProbClip
		}
		variance := prob * (1 - prob)

		residual := -prob
		if o.Correct {
			residual = 1 - prob
		}
		z := 0.0
		if variance > fitVarFloor {
			z = residual * residual / variance
		}
		zsq = append(zsq, z)
		weighted += z * variance
		varSum += variance
	}

	infit := 1.0
	if varSum > 0 {
		infit = weighted / varSum
	}
	outfit := stat.Mean(zsq, nil)

	st.Infit = &infit
	st.Outfit = &outfit
	st.Flag = classifyFit(infit, outfit)
	return st
}

func classifyFit(infit, outfit float64) string {
	switch {
	case infit > underfitMNSQ || outfit > underfitMNSQ:
		return FitUnderfit
	case infit < overfitMNSQ || outfit < overfitMNSQ:
		return FitOverfit
	default:
		return FitOK
	}
}

// summarizeFit rolls per-item statistics into the run-level view, with
// the worst offenders listed first.
func summarizeFit(stats []FitStat) FitSummary {
	s := FitSummary{Underfit: []FitStat{}, Overfit: []FitStat{}}
	var infits, outfits []float64
	for _, st := range stats {
		if st.Infit == nil {
			s.Insufficient++
			continue
		}
		s.Analyzed++
		infits = append(infits, *st.Infit)
		outfits = append(outfits, *st.Outfit)
		switch st.Flag {
		case FitUnderfit:
			s.UnderfitCnt++
			s.Underfit = append(s.Underfit, st)
		case FitOverfit:
			s.OverfitCnt++
			s.Overfit = append(s.Overfit, st)
		}
	}

	if s.Analyzed > 0 {
		mi := stat.Mean(infits, nil)
		mo := stat.Mean(outfits, nil)
		s.MeanInfit = &mi
		s.MeanOutfit = &mo
	}

	sort.Slice(s.Underfit, func(i, j int) bool { return *s.Underfit[i].Infit > *s.Underfit[j].Infit })
	sort.Slice(s.Overfit, func(i, j int) bool { return *s.Overfit[i].Infit < *s.Overfit[j].Infit })
	if len(s.Underfit) > fitListMax {
		s.Underfit = s.Underfit[:fitListMax]
	}
	if len(s.Overfit) > fitListMax {
		s.Overfit = s.Overfit[:fitListMax]
	}
	return s
}
