// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package cat

import "math"

// convergenceMinItems is the floor below which theta stability alone
// never ends a test. Short tests converge by accident; the estimate
// needs a real sample behind it before plateau detection counts.
const convergenceMinItems = 20

// shouldStop evaluates the stopping rules after a committed response.
// Order matters: the hard ceiling outranks everything, and nothing
// else fires before the minimum is reached.
func (e *Engine) shouldStop(s *Session) (TerminationReason, bool) {
	n := len(s.responses)

	if n >= e.maxItems {
		return ReasonMaxItems, true
	}
	if n < e.minItems {
		return "", false
	}
	if s.currentSE < e.seThreshold {
		return ReasonSEThreshold, true
	}
	if n >= convergenceMinItems && e.thetaConverged(s) {
		return ReasonConvergence, true
	}
	return "", false
}

// thetaConverged reports whether the last convergenceWindow estimate
// deltas all stayed inside epsilon. The window needs window+1 history
// points to yield that many deltas.
func (e *Engine) thetaConverged(s *Session) bool {
	h := s.thetaHistory
	if len(h) < e.convergenceWindow+1 {
		return false
	}
	recent := h[len(h)-e.convergenceWindow-1:]
	for i := 1; i < len(recent); i++ {
		if math.Abs(recent[i]-recent[i-1]) >= e.convergenceEpsilon {
			return false
		}
	}
	return true
}
