// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package bank

// QuestionType identifies one of the six ways a vocabulary item can be
// asked. The numbering follows the DVK (depth of vocabulary knowledge)
// hierarchy from shallow recognition to contextual use.
type QuestionType int

const (
	// TypeKoreanMeaning asks for the Korean meaning of an English word.
	TypeKoreanMeaning QuestionType = 1
	// TypeEnglishDef asks for the English definition.
	TypeEnglishDef QuestionType = 2
	// TypeSynonym asks for a synonym.
	TypeSynonym QuestionType = 3
	// TypeAntonym asks for an antonym.
	TypeAntonym QuestionType = 4
	// TypeCloze asks for the word completing a blanked sentence.
	TypeCloze QuestionType = 5
	// TypeCollocation asks whether a collocation is well formed (binary).
	TypeCollocation QuestionType = 6
)

// AllQuestionTypes lists the valid types in ascending order.
var AllQuestionTypes = []QuestionType{
	TypeKoreanMeaning, TypeEnglishDef, TypeSynonym,
	TypeAntonym, TypeCloze, TypeCollocation,
}

// Valid reports whether t is one of the six defined types.
func (t QuestionType) Valid() bool {
	return t >= TypeKoreanMeaning && t <= TypeCollocation
}

// DifficultyOffset returns the additive difficulty modifier applied when an
// item is rendered under this type. Korean meaning recognition is the
// baseline; English-to-English definition matching is the hardest format
// for EFL learners.
func (t QuestionType) DifficultyOffset() float64 {
	switch t {
	case TypeKoreanMeaning:
		return 0.0
	case TypeEnglishDef:
		return 0.6
	case TypeSynonym:
		return 0.2
	case TypeAntonym:
		return 0.3
	case TypeCloze:
		return 0.5
	case TypeCollocation:
		return 0.2
	default:
		return 0.0
	}
}

// GuessingC returns the lower asymptote for this rendering mode: a blind
// guess succeeds with probability just under 1/4 on four-option items and
// 0.40 on the binary collocation judgment.
func (t QuestionType) GuessingC() float64 {
	if t == TypeCollocation {
		return 0.40
	}
	return 0.20
}

// Dimension returns the diagnostic dimension this type probes.
func (t QuestionType) Dimension() string {
	switch t {
	case TypeKoreanMeaning, TypeEnglishDef:
		return DimensionSemantic
	case TypeSynonym, TypeAntonym:
		return DimensionRelational
	case TypeCloze, TypeCollocation:
		return DimensionContextual
	default:
		return ""
	}
}

func (t QuestionType) String() string {
	switch t {
	case TypeKoreanMeaning:
		return "korean_meaning"
	case TypeEnglishDef:
		return "english_definition"
	case TypeSynonym:
		return "synonym"
	case TypeAntonym:
		return "antonym"
	case TypeCloze:
		return "cloze"
	case TypeCollocation:
		return "collocation"
	default:
		return "unknown"
	}
}

// Diagnostic dimensions. Form and pragmatic knowledge have no question
// types yet and stay reserved in reports.
const (
	DimensionSemantic   = "semantic"
	DimensionRelational = "relational"
	DimensionContextual = "contextual"
	DimensionForm       = "form"
	DimensionPragmatic  = "pragmatic"
)

// Word is one row of the vocabulary database after cleaning. Everything
// the renderer and parameter initializer need lives here; Word values are
// immutable once the bank is built.
type Word struct {
	Display  string
	FreqRank int
	POS      string
	CEFR     string

	MeaningKo    string
	DefinitionEn string

	FreqGrade  string
	Curriculum string
	GradeRange string
	GSE        float64 // 0 when absent
	Lexile     string

	Synonyms     []string
	Antonyms     []string
	Hypernyms    []string
	Hyponyms     []string
	WordFamily   []string
	Collocations []string

	Sentence1    string
	Sentence2    string
	Sentence3    string
	ErrorPattern string

	Topic    string // raw topic string from the source
	Domain   string
	Register string

	EducationalValue int // 1..10, 0 when absent
	Oxford3000       string
	NGSL             string
	Stem             string

	IsLoanword bool
}

// HasOxford3000 reports whether the word carries a usable Oxford 3000 tag.
func (w *Word) HasOxford3000() bool {
	return w.Oxford3000 != "" && w.Oxford3000 != "N/A"
}

// PrimaryTopic returns the first topic token before any pipe or comma
// separator, used for topic-keyed indexing.
func (w *Word) PrimaryTopic() string {
	return primaryToken(w.Topic)
}
