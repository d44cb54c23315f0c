// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package bank

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/dwkang/lexicat/internal/logging"
)

// The vocabulary database is a hand-maintained TSV export. Several columns
// contain leaked values from neighboring columns (timestamps in
// educational_value, grade labels in freq_grade), so every numeric field
// is parsed defensively and rejected rather than guessed at.

// LoadTSV reads and cleans the vocabulary database. Rows without a display
// word are skipped; all other parse problems degrade to empty fields.
func LoadTSV(path string) ([]Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary database: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	words, err := readTSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary database %s: %w", path, err)
	}

	logger := logging.WithComponent("bank")
	logger.Info().
		Int("words", len(words)).
		Str("path", path).
		Msg("Vocabulary database loaded")
	return words, nil
}

func readTSV(r io.Reader) ([]Word, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var words []Word
	for rowIdx := 0; ; rowIdx++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx+2, err)
		}

		display := field(row, "word_display")
		if display == "" {
			continue
		}

		freqRank := parseFreqRank(field(row, "freq_rank"), len(words)+1)

		w := Word{
			Display:          display,
			FreqRank:         freqRank,
			POS:              field(row, "pos"),
			CEFR:             field(row, "cefr"),
			MeaningKo:        field(row, "meaning_ko"),
			DefinitionEn:     field(row, "definition_en"),
			FreqGrade:        cleanFreqGrade(field(row, "freq_grade")),
			Curriculum:       field(row, "kr_curriculum"),
			GradeRange:       field(row, "grade_range"),
			GSE:              parseGSE(field(row, "gse")),
			Lexile:           field(row, "lexile"),
			Synonyms:         parsePipeList(field(row, "synonym")),
			Antonyms:         parsePipeList(field(row, "antonym")),
			Hypernyms:        parsePipeList(field(row, "hypernym")),
			Hyponyms:         parsePipeList(field(row, "hyponym")),
			WordFamily:       parsePipeList(field(row, "word_family")),
			Collocations:     parsePipeList(field(row, "collocation")),
			Sentence1:        field(row, "sentence_1"),
			Sentence2:        field(row, "sentence_2"),
			Sentence3:        field(row, "sentence_3"),
			ErrorPattern:     field(row, "error_pattern"),
			Topic:            field(row, "topic"),
			Domain:           field(row, "domain"),
			Register:         field(row, "register"),
			EducationalValue: parseEducationalValue(field(row, "educational_value")),
			Oxford3000:       field(row, "oxford3000"),
			NGSL:             field(row, "ngsl"),
			Stem:             field(row, "stem"),
		}
		w.IsLoanword = IsTransparentLoanword(strings.ToLower(w.Display))

		words = append(words, w)
	}
	return words, nil
}

// nullish values appearing throughout the source data.
func isNullish(s string) bool {
	switch s {
	case "", "N/A", "null", "None", "none":
		return true
	}
	return false
}

// parsePipeList splits a pipe-delimited (preferred) or comma-delimited
// list, dropping nullish entries.
func parsePipeList(value string) []string {
	if isNullish(strings.TrimSpace(value)) {
		return nil
	}
	var parts []string
	switch {
	case strings.Contains(value, "|"):
		parts = strings.Split(value, "|")
	case strings.Contains(value, ", "):
		parts = strings.Split(value, ", ")
	default:
		parts = []string{value}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "N/A" || p == "null" || p == "None" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseFreqRank(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

var nonNumericRe = regexp.MustCompile(`[^\d.]`)

// parseGSE extracts the numeric GSE score, tolerating stray unit suffixes.
// Returns 0 when absent or unparseable.
func parseGSE(value string) float64 {
	if isNullish(strings.TrimSpace(value)) {
		return 0
	}
	cleaned := nonNumericRe.ReplaceAllString(strings.TrimSpace(value), "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseEducationalValue parses the 1..10 rating. The source column has
// timestamps leaked into it, so anything date-shaped is rejected.
func parseEducationalValue(value string) int {
	cleaned := strings.TrimSpace(value)
	if isNullish(cleaned) {
		return 0
	}
	if strings.Contains(cleaned, ":") {
		return 0
	}
	if strings.Contains(cleaned, "-") && len(cleaned) > 4 {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	v := int(f)
	if v < 1 || v > 10 {
		return 0
	}
	return v
}

// cleanFreqGrade normalizes the frequency grade column to the four valid
// Korean categories, mapping known stray values and dropping the rest.
func cleanFreqGrade(value string) string {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return ""
	}
	switch cleaned {
	case "intermediate", "일반":
		return "중빈도"
	case "advanced":
		return "저빈도"
	case "None", "null", "초등", "중등", "고등", "기타":
		return ""
	case "최고빈도", "고빈도", "중빈도", "저빈도":
		return cleaned
	}
	if _, err := strconv.Atoi(cleaned); err == nil {
		return ""
	}
	return ""
}

// parseLexileMidpoint parses a Lexile measure ("620L", "400-600L") into a
// single number, using the midpoint for ranges. Returns 0 when absent.
func parseLexileMidpoint(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if isNullish(cleaned) || cleaned == "Yes" {
		return 0
	}
	cleaned = strings.ReplaceAll(cleaned, "L", "")
	cleaned = strings.ReplaceAll(cleaned, "+", "")
	if lo, hi, ok := strings.Cut(cleaned, "-"); ok {
		a, err1 := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		b, err2 := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err1 != nil || err2 != nil {
			return 0
		}
		return (a + b) / 2.0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
