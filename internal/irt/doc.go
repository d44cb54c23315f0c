// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package irt implements the item response theory math kernel used by the
// adaptive testing engine.
//
// # Model
//
// Items follow the three-parameter logistic (3PL) model
//
//	P(correct | theta) = c + (1-c) * sigmoid(a * (theta - b))
//
// where a is discrimination, b is difficulty, and c is the lower asymptote
// (guessing). Setting c=0 recovers the 2PL model. All entry points clamp
// parameters to safe ranges before evaluation, so callers may pass raw
// calibration output directly.
//
// # Ability Estimation
//
// Ability is estimated with EAP (expected a posteriori) over a fixed
// 41-point quadrature grid spanning [-4, +4] with a standard normal prior.
// The Posterior type maintains the running posterior for one test session:
// each response multiplies the grid mass by the item likelihood and
// renormalizes, so the posterior always integrates to one and the estimate
// stays finite under all-correct and all-wrong response patterns, which a
// maximum likelihood estimator does not.
//
// # Determinism
//
// All functions are pure. Replaying the same response sequence through a
// fresh Posterior reproduces the same ability estimate and standard error,
// which is what allows terminated sessions to be rebuilt from persisted
// responses.
package irt
