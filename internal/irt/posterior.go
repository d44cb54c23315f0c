// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package irt

import "math"

// Quadrature grid for EAP estimation.
const (
	GridPoints = 41
	GridMin    = -4.0
	GridMax    = 4.0

	PriorMean = 0.0
	PriorSD   = 1.0
)

// minVariance floors the posterior variance so the standard error is
// always strictly positive.
const minVariance = 1e-10

// minTotalMass is the threshold below which the posterior is considered
// degenerate and reset to the prior.
const minTotalMass = 1e-30

// Posterior is a discrete posterior density over ability, maintained on a
// fixed quadrature grid. A fresh Posterior carries the standard normal
// prior; Update folds in one response at a time. The density is
// renormalized after every update, so it always integrates to one and
// repeated updates cannot underflow.
//
// Posterior is not safe for concurrent use; the owning session serializes
// access.
type Posterior struct {
	grid []float64
	mass []float64
}

// NewPosterior returns a posterior initialized to the N(PriorMean, PriorSD)
// prior on the standard grid.
func NewPosterior() *Posterior {
	p := &Posterior{
		grid: make([]float64, GridPoints),
		mass: make([]float64, GridPoints),
	}
	step := (GridMax - GridMin) / float64(GridPoints-1)
	for j := range p.grid {
		p.grid[j] = GridMin + float64(j)*step
	}
	p.reset()
	return p
}

// reset restores the prior density, normalized on the grid.
func (p *Posterior) reset() {
	for j, th := range p.grid {
		p.mass[j] = normalPDF(th, PriorMean, PriorSD)
	}
	total := trapezoid(p.grid, p.mass)
	for j := range p.mass {
		p.mass[j] /= total
	}
}

// Update folds one response into the posterior. dontKnow marks an "I don't
// know" answer: it scores as incorrect and the guessing parameter is
// dropped for this response, since an admitted unknown carries no guessing
// credit.
func (p *Posterior) Update(prm Params, correct, dontKnow bool) {
	if dontKnow {
		prm.C = 0
		correct = false
	}
	for j, th := range p.grid {
		prob := clamp(Probability(th, prm), probEpsilon, 1.0-probEpsilon)
		if correct {
			p.mass[j] *= prob
		} else {
			p.mass[j] *= 1.0 - prob
		}
	}
	p.normalize()
}

func (p *Posterior) normalize() {
	total := trapezoid(p.grid, p.mass)
	if total < minTotalMass {
		// Degenerate posterior. Fall back to the prior so the estimate
		// stays defined.
		p.reset()
		return
	}
	for j := range p.mass {
		p.mass[j] /= total
	}
}

// Mean returns the EAP ability estimate, the expectation of theta under
// the posterior.
func (p *Posterior) Mean() float64 {
	f := make([]float64, len(p.grid))
	for j, th := range p.grid {
		f[j] = th * p.mass[j]
	}
	return trapezoid(p.grid, f)
}

// SD returns the posterior standard deviation, the standard error of the
// EAP estimate. Always strictly positive.
func (p *Posterior) SD() float64 {
	mean := p.Mean()
	f := make([]float64, len(p.grid))
	for j, th := range p.grid {
		d := th - mean
		f[j] = d * d * p.mass[j]
	}
	variance := trapezoid(p.grid, f)
	if variance < minVariance {
		variance = minVariance
	}
	return math.Sqrt(variance)
}

// Integral returns the total posterior mass. After construction or any
// Update it is 1 up to floating point error; exposed for invariant checks.
func (p *Posterior) Integral() float64 {
	return trapezoid(p.grid, p.mass)
}

// Clone returns an independent copy, used for what-if selection scoring
// and session replay.
func (p *Posterior) Clone() *Posterior {
	c := &Posterior{
		grid: make([]float64, len(p.grid)),
		mass: make([]float64, len(p.mass)),
	}
	copy(c.grid, p.grid)
	copy(c.mass, p.mass)
	return c
}

// Replay rebuilds a posterior from a full response sequence. Applying the
// same sequence always yields bit-identical Mean and SD, which is what
// session restoration from persisted responses relies on.
func Replay(items []Params, correct, dontKnow []bool) *Posterior {
	p := NewPosterior()
	for i, prm := range items {
		dk := false
		if i < len(dontKnow) {
			dk = dontKnow[i]
		}
		ok := false
		if i < len(correct) {
			ok = correct[i]
		}
		p.Update(prm, ok, dk)
	}
	return p
}

// normalPDF evaluates the normal density with the given mean and standard
// deviation.
func normalPDF(x, mean, sd float64) float64 {
	z := (x - mean) / sd
	return math.Exp(-0.5*z*z) / (sd * math.Sqrt(2.0*math.Pi))
}

// trapezoid integrates f sampled at the given grid points using the
// trapezoid rule.
func trapezoid(grid, f []float64) float64 {
	s := 0.0
	for i := 1; i < len(grid); i++ {
		s += 0.5 * (grid[i] - grid[i-1]) * (f[i] + f[i-1])
	}
	return s
}
