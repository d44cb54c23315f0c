// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package calibrate refines item parameters from archived responses.
// Each item with enough data gets a MAP update of difficulty and
// discrimination: the current parameters act as a normal prior, the
// recorded (theta, correct) pairs as the likelihood. Updates outside
// the guard bounds are anomalies and keep the prior. A run publishes
// one new bank version; the swap is atomic and readers never see a
// half-calibrated bank.
package calibrate

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dwkang/lexicat/internal/bank"
	"github.com/dwkang/lexicat/internal/config"
	"github.com/dwkang/lexicat/internal/irt"
	"github.com/dwkang/lexicat/internal/logging"
	"github.com/dwkang/lexicat/internal/metrics"
)

// Observation is one archived response: the learner's ability estimate
// at the time of the answer and whether it was correct.
type Observation struct {
	Theta   float64
	Correct bool
}

// Search bounds and priors. Difficulty moves inside a wider window than
// the initializer's [-2.5, 2.5] so calibration can correct misplaced
// items; discrimination stays in the usable range.
const (
	difficultyLo     = -3.5
	difficultyHi     = 3.5
	discriminationLo = 0.2
	discriminationHi = 3.0

	bPriorSD = 0.5
	aPriorSD = 0.3

	// aMinResponses gates the discrimination update; a needs more data
	// than b to move safely.
	aMinResponses = 20

	likClip = 1e-10
)

// ItemResult records the proposed update for one item, whether it was
// accepted, and the fit diagnostics under the prior parameters.
type ItemResult struct {
	ItemID    int     `json:"item_id"`
	Word      string  `json:"word"`
	Responses int     `json:"responses"`
	OldA      float64 `json:"old_a"`
	OldB      float64 `json:"old_b"`
	NewA      float64 `json:"new_a"`
	NewB      float64 `json:"new_b"`
	DeltaA    float64 `json:"delta_a"`
	DeltaB    float64 `json:"delta_b"`
	Accepted  bool    `json:"accepted"`
	Anomalous bool    `json:"anomalous"`
	Fit       FitStat `json:"fit"`
}

// Summary is the outcome of one calibration run.
type Summary struct {
	Candidates    int          `json:"candidates"`
	Calibrated    int          `json:"calibrated"`
	Anomalous     int          `json:"anomalous"`
	Skipped       int          `json:"skipped"`
	TotalSessions int          `json:"total_sessions"`
	Model         string       `json:"model"`
	BankVersion   int          `json:"bank_version"`
	Published     bool         `json:"published"`
	Results       []ItemResult `json:"results"`
	Fit           FitSummary   `json:"fit"`
}

// Engine runs admin-triggered calibration passes against a bank handle.
type Engine struct {
	handle  *bank.Handle
	limiter *rate.Limiter
	logger  zerolog.Logger

	minResponses int
	maxDeltaA    float64
	maxDeltaB    float64
	sessions3PL  int
}

// NewEngine wires a calibration engine from configuration and the bank
// handle it publishes to.
func NewEngine(cfg config.CalibrationConfig, h *bank.Handle) *Engine {
	lim := rate.Inf
	if cfg.ItemsPerSecond > 0 {
		lim = rate.Limit(cfg.ItemsPerSecond)
	}
	return &Engine{
		handle:       h,
		limiter:      rate.NewLimiter(lim, 1),
		logger:       logging.WithComponent("calibrate"),
		minResponses: cfg.MinResponses,
		maxDeltaA:    cfg.MaxDeltaA,
		maxDeltaB:    cfg.MaxDeltaB,
		sessions3PL:  cfg.Sessions3PL,
	}
}

// Run calibrates every item with archived responses and publishes the
// resulting bank version. responses maps item id to that item's
// observations; totalSessions decides whether the guessing model
// activates. Items are paced through the limiter so a large run cannot
// starve request handlers sharing the process.
func (e *Engine) Run(ctx context.Context, responses map[int][]Observation, totalSessions int) (*Summary, error) {
	b := e.handle.Current()

	model := b.Model()
	if totalSessions >= e.sessions3PL {
		model = bank.Model3PL
	}

	ids := make([]int, 0, len(responses))
	for id := range responses {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	summary := &Summary{TotalSessions: totalSessions, Model: model.String()}
	updates := make(map[int]bank.ItemParams)
	fits := make([]FitStat, 0, len(ids))

	for _, id := range ids {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		it, ok := b.ByID(id)
		if !ok {
			e.logger.Warn().Int("item_id", id).Msg("Responses reference unknown item")
			continue
		}
		obs := responses[id]
		fit := ItemFit(it, obs)
		fits = append(fits, fit)

		if len(obs) < e.minResponses {
			summary.Skipped++
			continue
		}
		summary.Candidates++

		res := e.calibrateItem(it, obs)
		res.Fit = fit
		summary.Results = append(summary.Results, res)

		switch {
		case res.Anomalous:
			summary.Anomalous++
			e.logger.Warn().
				Int("item_id", it.ID).
				Str("word", it.Word).
				Float64("delta_a", res.DeltaA).
				Float64("delta_b", res.DeltaB).
				Msg("Calibration update outside guard bounds, prior retained")
		case res.Accepted:
			summary.Calibrated++
			updates[id] = bank.ItemParams{A: res.NewA, B: res.NewB}
		}
	}

	published := b
	if len(updates) > 0 || model != b.Model() {
		published = b.WithParams(updates, model)
		e.handle.Publish(published)
		summary.Published = true
	}
	summary.BankVersion = published.Version()
	summary.Fit = summarizeFit(fits)

	outcome := "dry_run"
	if summary.Published {
		outcome = "published"
	}
	metrics.RecordCalibrationRun(outcome, summary.Calibrated)

	e.logger.Info().
		Int("candidates", summary.Candidates).
		Int("calibrated", summary.Calibrated).
		Int("anomalous", summary.Anomalous).
		Int("skipped", summary.Skipped).
		Str("model", summary.Model).
		Int("bank_version", summary.BankVersion).
		Msg("Calibration run complete")
	return summary, nil
}

// calibrateItem proposes new (b, a) for one item: difficulty first,
// then discrimination against the fresh difficulty. The guard bounds
// reject the whole proposal, not one half of it.
func (e *Engine) calibrateItem(it *bank.Item, obs []Observation) ItemResult {
	newB := updateDifficulty(it.B, it.A, obs)
	newA := it.A
	if len(obs) >= aMinResponses {
		newA = updateDiscrimination(it.A, newB, obs)
	}

	res := ItemResult{
		ItemID:    it.ID,
		Word:      it.Word,
		Responses: len(obs),
		OldA:      it.A,
		OldB:      it.B,
		NewA:      newA,
		NewB:      newB,
		DeltaA:    newA - it.A,
		DeltaB:    newB - it.B,
	}
	if math.Abs(res.DeltaB) > e.maxDeltaB || math.Abs(res.DeltaA) > e.maxDeltaA {
		res.Anomalous = true
		return res
	}
	res.Accepted = true
	return res
}

// updateDifficulty returns the MAP difficulty given the observations,
// with the current value as a normal prior.
func updateDifficulty(currentB, a float64, obs []Observation) float64 {
	if len(obs) == 0 {
		return currentB
	}
	prior := distuv.Normal{Mu: currentB, Sigma: bPriorSD}
	return goldenMin(func(b float64) float64 {
		return -(prior.LogProb(b) + logLikelihood(a, b, obs))
	}, difficultyLo, difficultyHi)
}

// updateDiscrimination returns the MAP discrimination at a fixed
// difficulty, with the current value as a normal prior.
func updateDiscrimination(currentA, b float64, obs []Observation) float64 {
	if len(obs) == 0 {
		return currentA
	}
	prior := distuv.Normal{Mu: currentA, Sigma: aPriorSD}
	return goldenMin(func(a float64) float64 {
		return -(prior.LogProb(a) + logLikelihood(a, b, obs))
	}, discriminationLo, discriminationHi)
}

// logLikelihood scores the observations under base 2PL parameters.
// Calibration works on the item-level (a, b); per-type offsets and
// guessing floors belong to rendering, not to the stored parameters.
func logLikelihood(a, b float64, obs []Observation) float64 {
	p := irt.Params{A: a, B: b}
	ll := 0.0
	for _, o := range obs {
		prob := irt.Probability(o.Theta, p)
		if prob < likClip {
			prob = likClip
		} else if prob > 1-likClip {
			prob = 1 - likClip
		}
		if o.Correct {
			ll += math.Log(prob)
		} else {
			ll += math.Log1p(-prob)
		}
	}
	return ll
}

// Golden-section search tolerances. The objectives are smooth and
// anchored by the prior, so a fixed bracket shrink is enough.
const (
	goldenTol     = 1e-4
	goldenMaxIter = 100
)

// goldenMin minimizes f over [lo, hi] by golden-section search.
func goldenMin(f func(float64) float64, lo, hi float64) float64 {
	const invPhi = 0.6180339887498949

	a, b := lo, hi
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := f(c), f(d)
	for i := 0; i < goldenMaxIter && b-a > goldenTol; i++ {
		if fc < fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
	}
	return (a + b) / 2
}
