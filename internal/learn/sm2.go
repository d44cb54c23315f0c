// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package learn

import "math"

// Self-rating scale for a learning card.
const (
	RatingForgot = 0
	RatingHard   = 1
	RatingGood   = 2
	RatingEasy   = 3
)

// SM-2 tuning. The ease factor is floored on failures and grows
// without a ceiling on easy recalls.
const (
	easeStart = 2.5
	easeFloor = 1.3

	hardGrowth = 1.2
	easyBonus  = 1.3

	easeForgotPenalty = 0.20
	easeHardPenalty   = 0.15
	easeEasyReward    = 0.15

	firstGoodInterval = 1
	firstEasyInterval = 4
)

// applyRating advances the review interval and ease factor for one
// self-rating. everGood reports whether the word has any prior rating
// of good or better; until then, and again right after a forget reset,
// good/easy restart the interval ladder at its base instead of
// multiplying a stale value.
func applyRating(interval int, ease float64, rating int, everGood bool) (int, float64) {
	switch rating {
	case RatingForgot:
		return 0, math.Max(easeFloor, ease-easeForgotPenalty)
	case RatingHard:
		next := int(math.Round(float64(interval) * hardGrowth))
		if next < 1 {
			next = 1
		}
		return next, math.Max(easeFloor, ease-easeHardPenalty)
	case RatingGood:
		if interval == 0 || !everGood {
			return firstGoodInterval, ease
		}
		return int(math.Round(float64(interval) * ease)), ease
	default: // RatingEasy
		if interval == 0 || !everGood {
			return firstEasyInterval, ease + easeEasyReward
		}
		return int(math.Round(float64(interval) * ease * easyBonus)), ease + easeEasyReward
	}
}
