// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package irt

import "math"

// Parameter bounds. Values outside these ranges come from noisy metadata or
// an unconverged calibration run and are clamped rather than rejected.
const (
	MinDiscrimination = 0.3
	MaxDiscrimination = 3.0
	MinDifficulty     = -4.0
	MaxDifficulty     = 4.0
	MinGuessing       = 0.0
	MaxGuessing       = 0.4
)

// probEpsilon bounds probabilities away from 0 and 1 so log-likelihood and
// posterior updates never produce -Inf.
const probEpsilon = 1e-10

// Params holds the response model parameters for a single item under a
// specific question type (the per-type difficulty offset is already folded
// into B by the caller).
type Params struct {
	A float64 // discrimination
	B float64 // difficulty
	C float64 // lower asymptote; 0 selects the 2PL model
}

// Clamp returns a copy of p with each parameter forced into its valid range.
func (p Params) Clamp() Params {
	return Params{
		A: clamp(p.A, MinDiscrimination, MaxDiscrimination),
		B: clamp(p.B, MinDifficulty, MaxDifficulty),
		C: clamp(p.C, MinGuessing, MaxGuessing),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Probability returns P(correct | theta) under the 3PL model. Parameters
// are clamped before evaluation.
func Probability(theta float64, p Params) float64 {
	p = p.Clamp()
	return p.C + (1.0-p.C)*sigmoid(p.A*(theta-p.B))
}

// sigmoid computes the logistic function, branching on the sign of the
// exponent so neither branch can overflow.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1.0 + e)
}

// FisherInfo returns the Fisher information of an item at theta.
//
// For 2PL (c=0): I = a^2 * P * (1-P).
// For 3PL: I = a^2 * (1-P) * (P-c)^2 / ((1-c)^2 * P), defined as 0 when
// P vanishes.
func FisherInfo(theta float64, p Params) float64 {
	p = p.Clamp()
	prob := p.C + (1.0-p.C)*sigmoid(p.A*(theta-p.B))
	q := 1.0 - prob

	if p.C == 0 {
		return p.A * p.A * prob * q
	}
	if prob < probEpsilon {
		return 0.0
	}
	d := prob - p.C
	oneMinusC := 1.0 - p.C
	return p.A * p.A * q * d * d / (oneMinusC * oneMinusC * prob)
}

// LogLikelihood returns the log-likelihood of a response pattern at theta.
// items and correct must have equal length; extra entries in either slice
// are ignored.
func LogLikelihood(theta float64, items []Params, correct []bool) float64 {
	n := len(items)
	if len(correct) < n {
		n = len(correct)
	}

	ll := 0.0
	for i := 0; i < n; i++ {
		prob := clamp(Probability(theta, items[i]), probEpsilon, 1.0-probEpsilon)
		if correct[i] {
			ll += math.Log(prob)
		} else {
			ll += math.Log1p(-prob)
		}
	}
	return ll
}

// Reliability converts a standard error into a classical reliability
// coefficient, floored at zero.
func Reliability(se float64) float64 {
	r := 1.0 - se*se
	if r < 0 {
		return 0
	}
	return r
}
