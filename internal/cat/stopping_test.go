// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package cat

import "testing"

func stoppingEngine() *Engine {
	return &Engine{
		minItems:           15,
		maxItems:           40,
		seThreshold:        0.30,
		convergenceWindow:  5,
		convergenceEpsilon: 0.05,
	}
}

func sessionAfter(n int, se float64, history []float64) *Session {
	s := &Session{
		responses:    make([]ResponseRecord, n),
		currentSE:    se,
		thetaHistory: history,
	}
	return s
}

func flatHistory(n int, v float64) []float64 {
	h := make([]float64, n)
	for i := range h {
		h[i] = v
	}
	return h
}

func TestShouldStop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		n          int
		se         float64
		history    []float64
		wantReason TerminationReason
		wantStop   bool
	}{
		{
			name: "below minimum never stops",
			n:    14, se: 0.01, history: flatHistory(14, 0.5),
			wantStop: false,
		},
		{
			name: "max items outranks everything",
			n:    40, se: 0.05, history: flatHistory(40, 0.5),
			wantReason: ReasonMaxItems, wantStop: true,
		},
		{
			name: "past max items still max items",
			n:    45, se: 0.9, history: flatHistory(45, 0.5),
			wantReason: ReasonMaxItems, wantStop: true,
		},
		{
			name: "precise estimate stops at minimum",
			n:    15, se: 0.29, history: flatHistory(15, 0.5),
			wantReason: ReasonSEThreshold, wantStop: true,
		},
		{
			name: "se exactly at threshold keeps going",
			n:    15, se: 0.30, history: flatHistory(15, 0.5),
			wantStop: false,
		},
		{
			name: "flat estimate below convergence floor keeps going",
			n:    19, se: 0.50, history: flatHistory(19, 0.5),
			wantStop: false,
		},
		{
			name: "flat estimate at convergence floor stops",
			n:    20, se: 0.50, history: flatHistory(20, 0.5),
			wantReason: ReasonConvergence, wantStop: true,
		},
		{
			name: "short history cannot converge",
			n:    20, se: 0.50, history: flatHistory(5, 0.5),
			wantStop: false,
		},
		{
			name: "drift at epsilon is not convergence",
			n:    20, se: 0.50,
			history: []float64{0.0, 0.05, 0.10, 0.15, 0.20, 0.25},
			wantStop: false,
		},
		{
			name: "drift just under epsilon converges",
			n:    20, se: 0.50,
			history: []float64{0.0, 0.049, 0.098, 0.147, 0.196, 0.245},
			wantReason: ReasonConvergence, wantStop: true,
		},
		{
			name: "one late jump breaks convergence",
			n:    20, se: 0.50,
			history: append(flatHistory(19, 0.5), 0.7),
			wantStop: false,
		},
		{
			name: "early wobble outside the window is ignored",
			n:    20, se: 0.50,
			history: append([]float64{-2.0, 1.5, -1.0, 0.9}, flatHistory(16, 0.5)...),
			wantReason: ReasonConvergence, wantStop: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := stoppingEngine()
			s := sessionAfter(tt.n, tt.se, tt.history)
			reason, stop := e.shouldStop(s)
			if stop != tt.wantStop {
				t.Fatalf("shouldStop() stop = %v, want %v", stop, tt.wantStop)
			}
			if reason != tt.wantReason {
				t.Errorf("shouldStop() reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}
