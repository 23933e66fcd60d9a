package mapping

import (
	"regexp"
	"strings"

	"performance-core/internal/models"
)

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// RevenueSummary is the result of aggregating mapped rows for one campaign
type RevenueSummary struct {
	Revenue         float64 `json:"revenue"`
	ConversionValue float64 `json:"conversion_value"`
	MatchedRows     int     `json:"matched_rows"`
	TotalRows       int     `json:"total_rows"`
	SkippedCells    int     `json:"skipped_cells"`
}

// AggregateRevenue sums the revenue and conversion value columns of the rows
// whose identifier matches crosswalk and whose platform matches
// platformFilter. An empty crosswalk or filter matches every row. When no
// revenue column is mapped, revenue falls back to the conversion value sum.
func AggregateRevenue(table models.Table, mappings []models.FieldMapping, crosswalk, platformFilter string) RevenueSummary {
	identifierCol, revenueCol, valueCol, platformCol := -1, -1, -1, -1
	for _, m := range mappings {
		switch {
		case m.TargetFieldID.IsIdentifier():
			identifierCol = m.SourceColumnIndex
		case m.TargetFieldID == models.FieldRevenue:
			revenueCol = m.SourceColumnIndex
		case m.TargetFieldID == models.FieldConversionValue:
			valueCol = m.SourceColumnIndex
		case m.TargetFieldID == models.FieldPlatform:
			platformCol = m.SourceColumnIndex
		}
	}

	want := NormalizeIdentifier(crosswalk)
	filter := strings.ToLower(strings.TrimSpace(platformFilter))

	summary := RevenueSummary{TotalRows: len(table.Rows)}
	for r := range table.Rows {
		if want != "" && identifierCol >= 0 && NormalizeIdentifier(table.Cell(r, identifierCol)) != want {
			continue
		}
		if filter != "" && platformCol >= 0 && strings.ToLower(strings.TrimSpace(table.Cell(r, platformCol))) != filter {
			continue
		}
		summary.MatchedRows++

		if revenueCol >= 0 {
			summary.Revenue += summary.number(table.Cell(r, revenueCol))
		}
		if valueCol >= 0 {
			summary.ConversionValue += summary.number(table.Cell(r, valueCol))
		}
	}

	if revenueCol < 0 {
		summary.Revenue = summary.ConversionValue
	}
	return summary
}

func (s *RevenueSummary) number(cell string) float64 {
	if strings.TrimSpace(cell) == "" {
		return 0
	}
	n, ok := ParseNumber(cell)
	if !ok {
		s.SkippedCells++
		return 0
	}
	return n
}

// NormalizeIdentifier folds an identifier cell for crosswalk comparison.
// LinkedIn URNs reduce to their trailing numeric id.
func NormalizeIdentifier(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.Contains(v, "urn:li") {
		if m := trailingDigits.FindString(v); m != "" {
			return m
		}
	}
	return v
}
