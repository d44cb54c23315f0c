// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package cat

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/dwkang/lexicat/internal/irt"
)

// TestMeasurementQualitySimulation drives ten thousand simulated
// learners with known abilities through full adaptive sessions on a
// shared bank and checks the recovered estimates. Responses are sampled
// from the true response model, so estimation error here is the
// engine's own.
func TestMeasurementQualitySimulation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping learner simulation in short mode")
	}

	const learners = 10000
	b := fixtureBank(t, 300)
	e, exp := testEngine(b)

	trueRng := rand.New(rand.NewSource(20260826))
	trueTheta := make([]float64, learners)
	for i := range trueTheta {
		trueTheta[i] = trueRng.NormFloat64()
	}

	estimates := make([]float64, learners)
	finalSE := make([]float64, learners)
	early := 0

	for i := 0; i < learners; i++ {
		s := NewSession(fmt.Sprintf("sim-%05d", i), fmt.Sprintf("learner-%05d", i), Profile{})
		answers := rand.New(rand.NewSource(int64(1_000_000 + i)))

		r, err := e.Start(s)
		if err != nil {
			t.Fatalf("Start(learner %d) error = %v", i, err)
		}
		for {
			it, ok := b.ByID(r.ItemID)
			if !ok {
				t.Fatalf("rendered unknown item %d", r.ItemID)
			}
			p := irt.Probability(trueTheta[i], b.ResponseParams(it, r.QuestionType))
			res, err := e.Submit(s, r.ItemID, answers.Float64() < p, false, 1000)
			if err != nil {
				t.Fatalf("Submit(learner %d, item %d) error = %v", i, r.ItemID, err)
			}
			if res.Terminated {
				if res.Reason != ReasonMaxItems {
					early++
				}
				break
			}
			r = res.Next
		}
		estimates[i] = s.Theta()
		finalSE[i] = s.SE()
	}

	var sq float64
	for i := range estimates {
		d := estimates[i] - trueTheta[i]
		sq += d * d
	}
	rmse := math.Sqrt(sq / learners)
	if rmse >= 0.45 {
		t.Errorf("RMSE = %.4f, want < 0.45", rmse)
	}

	if corr := stat.Correlation(trueTheta, estimates, nil); corr <= 0.92 {
		t.Errorf("Pearson correlation = %.4f, want > 0.92", corr)
	}

	if meanSE := stat.Mean(finalSE, nil); meanSE >= 0.35 {
		t.Errorf("mean SE = %.4f, want < 0.35", meanSE)
	}

	if frac := float64(early) / learners; frac < 0.5 {
		t.Errorf("early termination fraction = %.3f, want >= 0.5", frac)
	}

	// With this much traffic the exposure controller must have held
	// every item inside the relaxed ceiling; the unrestricted fallback
	// never fires on a pool this size.
	maxRate := 0.0
	maxItem := -1
	for id := 0; id < 300; id++ {
		if r := exp.Rate(id); r > maxRate {
			maxRate, maxItem = r, id
		}
	}
	if maxRate > 0.36 {
		t.Errorf("item %d reached exposure rate %.3f, want <= relaxed cap", maxItem, maxRate)
	}
}
