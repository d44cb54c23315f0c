// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package cat

import "github.com/dwkang/lexicat/internal/bank"

// Profile is the learner's self-reported background, collected at test
// start. It seeds the starting point of the first item selection; the
// posterior prior itself stays N(0, 1) regardless of profile.
type Profile struct {
	Nickname       string            `json:"nickname,omitempty"`
	Grade          string            `json:"grade"`
	SelfAssess     string            `json:"self_assess"`
	ExamExperience string            `json:"exam_experience"`
	QuestionType   bank.QuestionType `json:"question_type"` // 0 = mixed mode
}

// Ability bias per school grade, on the theta scale. Derived from CEFR
// expectations of the Korean national curriculum.
var gradeTheta = map[string]float64{
	"초3-4": -2.0,
	"초5-6": -1.2,
	"중1":   -0.5,
	"중2":   0.0,
	"중3":   0.3,
	"고1":   0.5,
	"고2":   0.8,
	"고3":   1.0,
	"대학":   1.2,
	"성인":   0.5,
}

var selfAssessAdjust = map[string]float64{
	"beginner":     -0.5,
	"intermediate": 0.0,
	"advanced":     0.5,
}

var examAdjust = map[string]float64{
	"none":  -0.3,
	"내신":    0.0,
	"수능":    0.2,
	"TOEIC": 0.3,
	"TOEFL": 0.5,
}

// InitialTheta maps the profile to the starting ability used by the
// first item selection. The raw grade/self-assessment/exam composite is
// quantized to a coarse bias in {-1, 0, +1}: the profile is self-reported
// and should nudge the opening item, not anchor the estimate.
func (p Profile) InitialTheta() float64 {
	raw := gradeTheta[p.Grade] + selfAssessAdjust[p.SelfAssess] + examAdjust[p.ExamExperience]
	switch {
	case raw < -0.5:
		return -1.0
	case raw > 0.5:
		return 1.0
	default:
		return 0.0
	}
}
