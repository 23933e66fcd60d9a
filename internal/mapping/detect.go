package mapping

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"performance-core/internal/models"
)

const maxSampleValues = 5

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// DetectColumns infers a type, confidence and sample values for every column
// of the table. The type is the majority vote over non-empty cells.
func DetectColumns(table models.Table) []models.DetectedColumn {
	width := len(table.Headers)
	for _, row := range table.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := make([]models.DetectedColumn, 0, width)
	for i := 0; i < width; i++ {
		original := ""
		if i < len(table.Headers) {
			original = strings.TrimSpace(table.Headers[i])
		}
		columns = append(columns, detectColumn(table, i, original))
	}
	return columns
}

func detectColumn(table models.Table, index int, original string) models.DetectedColumn {
	votes := map[string]int{}
	seen := map[string]struct{}{}
	nonEmpty := 0
	nulls := 0
	samples := make([]interface{}, 0, maxSampleValues)

	for r := range table.Rows {
		value := strings.TrimSpace(table.Cell(r, index))
		if value == "" {
			nulls++
			continue
		}
		nonEmpty++
		votes[classify(value)]++
		seen[value] = struct{}{}
		if len(samples) < maxSampleValues {
			samples = append(samples, value)
		}
	}

	detected := models.ColumnTypeString
	best := 0
	for _, candidate := range []string{models.ColumnTypeNumber, models.ColumnTypeDate, models.ColumnTypeBoolean, models.ColumnTypeString} {
		if votes[candidate] > best {
			detected = candidate
			best = votes[candidate]
		}
	}

	confidence := 0.0
	if nonEmpty > 0 {
		confidence = float64(best) / float64(nonEmpty)
	}

	if detected == models.ColumnTypeNumber {
		for i, s := range samples {
			if n, ok := ParseNumber(s.(string)); ok {
				samples[i] = n
			}
		}
	}

	unique := len(seen)
	return models.DetectedColumn{
		Index:        index,
		Name:         columnName(original, index),
		OriginalName: original,
		DetectedType: detected,
		Confidence:   confidence,
		SampleValues: samples,
		UniqueValues: &unique,
		NullCount:    nulls,
	}
}

func classify(value string) string {
	if _, ok := ParseNumber(value); ok {
		return models.ColumnTypeNumber
	}
	if isDate(value) {
		return models.ColumnTypeDate
	}
	switch strings.ToLower(value) {
	case "true", "false", "yes", "no":
		return models.ColumnTypeBoolean
	}
	return models.ColumnTypeString
}

// ParseNumber reads a numeric cell, accepting currency symbols, thousand
// separators, a trailing percent sign and accounting-style negatives.
func ParseNumber(value string) (float64, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimSpace(s[1:])
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimLeft(s, "$€£¥")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}

func isDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func columnName(original string, index int) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(original) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	name := strings.TrimRight(b.String(), "_")
	if name == "" {
		return fmt.Sprintf("column_%d", index+1)
	}
	return name
}

// UniqueValues returns up to limit distinct non-empty values of a column in
// first-seen order. A limit of zero or less means no limit.
func UniqueValues(table models.Table, index, limit int) []string {
	seen := map[string]struct{}{}
	values := []string{}
	for r := range table.Rows {
		value := strings.TrimSpace(table.Cell(r, index))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
		if limit > 0 && len(values) == limit {
			break
		}
	}
	return values
}

func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
