package mapping

import (
	"fmt"
	"regexp"
	"strings"

	"performance-core/internal/models"
)

const (
	maxIdentifierSamples = 20
	numericIDThreshold   = 0.6
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// InferIdentifierRoute guesses whether a column identifies campaigns by name
// or by numeric id. The result is advisory; callers let users override it.
func InferIdentifierRoute(column *models.DetectedColumn) models.TargetField {
	if column == nil {
		return models.FieldCampaignName
	}

	detected := strings.ToLower(column.DetectedType)
	if strings.Contains(detected, "number") || strings.Contains(detected, "int") || strings.Contains(detected, "numeric") {
		return models.FieldCampaignID
	}

	samples := make([]string, 0, maxIdentifierSamples)
	for _, raw := range column.SampleValues {
		if len(samples) == maxIdentifierSamples {
			break
		}
		value := strings.TrimSpace(cellString(raw))
		if value == "" {
			continue
		}
		samples = append(samples, value)
	}

	for _, value := range samples {
		if strings.Contains(strings.ToLower(value), "urn:li") {
			return models.FieldCampaignID
		}
	}

	if len(samples) == 0 {
		return models.FieldCampaignName
	}

	numeric := 0
	for _, value := range samples {
		if digitsOnly.MatchString(value) {
			numeric++
		}
	}
	if float64(numeric)/float64(len(samples)) >= numericIDThreshold {
		return models.FieldCampaignID
	}

	return models.FieldCampaignName
}

// IdentifierSelection tracks the identifier column chosen for a data source
// and whether its route was set by hand. A manual route is kept until the
// column changes.
type IdentifierSelection struct {
	ColumnIndex *int
	Route       models.TargetField
	Overridden  bool
}

// SelectColumn points the selection at a new column. Choosing a different
// column clears any manual override and re-infers the route.
func (s *IdentifierSelection) SelectColumn(column *models.DetectedColumn) {
	var index *int
	if column != nil {
		i := column.Index
		index = &i
	}

	if !sameIndex(s.ColumnIndex, index) {
		s.Overridden = false
	}
	s.ColumnIndex = index

	if !s.Overridden {
		s.Route = InferIdentifierRoute(column)
	}
}

// Override fixes the route by hand.
func (s *IdentifierSelection) Override(route models.TargetField) error {
	if !route.IsIdentifier() {
		return fmt.Errorf("%q is not an identifier field", route)
	}
	s.Route = route
	s.Overridden = true
	return nil
}

// Refresh re-runs inference after columns are re-detected, unless the route
// was overridden.
func (s *IdentifierSelection) Refresh(columns []models.DetectedColumn) {
	if s.Overridden {
		return
	}
	s.Route = InferIdentifierRoute(FindColumn(columns, s.ColumnIndex))
}

// FindColumn returns the column with the given index, or nil.
func FindColumn(columns []models.DetectedColumn, index *int) *models.DetectedColumn {
	if index == nil {
		return nil
	}
	for i := range columns {
		if columns[i].Index == *index {
			return &columns[i]
		}
	}
	return nil
}

func sameIndex(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return FormatNumber(t)
	case float32:
		return FormatNumber(float64(t))
	default:
		return fmt.Sprint(t)
	}
}
