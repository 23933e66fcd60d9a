package mapping

import (
	"sort"
	"strings"

	"performance-core/internal/models"
)

const partialMatchScore = 0.7

var identifierAliases = []string{
	"campaign", "campaign_name", "campaign_title", "campaign_id", "campaignid",
	"campaign_urn", "utm_campaign", "deal_name", "dealname", "name", "id", "urn",
}

var fieldAliases = map[models.TargetField][]string{
	models.FieldRevenue: {
		"revenue", "total_revenue", "amount", "deal_amount", "sales", "income", "gross_revenue",
	},
	models.FieldConversionValue: {
		"conversion_value", "conversions_value", "conv_value", "conversion_value_in_local_currency",
		"conversionvalueinlocalcurrency", "value",
	},
	models.FieldPlatform: {
		"platform", "source", "channel", "network", "utm_source", "ad_network",
	},
}

type candidate struct {
	field  models.TargetField
	column int
	score  float64
}

// AutoMap proposes mappings from column names to the given fields. Each
// column and each field is used at most once. A selection with a column pins
// that column as the identifier; its route is kept when overridden and
// otherwise decided by InferIdentifierRoute.
func AutoMap(columns []models.DetectedColumn, fields []models.PlatformField, selection *IdentifierSelection) []models.FieldMapping {
	wanted := map[models.TargetField]bool{}
	var identifier models.TargetField
	for _, f := range fields {
		wanted[f.ID] = true
		if f.ID.IsIdentifier() && identifier == "" {
			identifier = f.ID
		}
	}

	usedField := map[models.TargetField]bool{}
	usedColumn := map[int]bool{}
	var mappings []models.FieldMapping

	pinned := -1
	if selection != nil && identifier != "" {
		for i := range columns {
			if selection.ColumnIndex != nil && columns[i].Index == *selection.ColumnIndex {
				pinned = i
				break
			}
		}
	}
	if pinned >= 0 {
		col := &columns[pinned]
		mappings = append(mappings, identifierMapping(col, selection, 1))
		usedField[identifier] = true
		usedColumn[pinned] = true
	}

	var candidates []candidate
	for i := range columns {
		col := &columns[i]
		if i == pinned {
			continue
		}
		if identifier != "" && pinned < 0 {
			if score := aliasScore(col.Name, identifierAliases); score > 0 {
				candidates = append(candidates, candidate{field: identifier, column: i, score: score})
			}
		}
		for field, aliases := range fieldAliases {
			if !wanted[field] || !typeCompatible(field, col.DetectedType) {
				continue
			}
			if score := aliasScore(col.Name, aliases); score > 0 {
				candidates = append(candidates, candidate{field: field, column: i, score: score * columnWeight(col)})
			}
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		if candidates[a].field != candidates[b].field {
			return candidates[a].field < candidates[b].field
		}
		return candidates[a].column < candidates[b].column
	})

	for _, c := range candidates {
		if usedField[c.field] || usedColumn[c.column] {
			continue
		}
		usedField[c.field] = true
		usedColumn[c.column] = true

		col := &columns[c.column]
		if c.field.IsIdentifier() {
			mappings = append(mappings, identifierMapping(col, selection, c.score))
			continue
		}
		mappings = append(mappings, models.FieldMapping{
			SourceColumnIndex: col.Index,
			SourceColumnName:  col.Name,
			TargetFieldID:     c.field,
			TargetFieldName:   FieldName(c.field),
			MatchType:         models.MatchTypeAuto,
			Confidence:        c.score,
		})
	}

	sort.SliceStable(mappings, func(a, b int) bool {
		return mappings[a].SourceColumnIndex < mappings[b].SourceColumnIndex
	})
	return mappings
}

// identifierMapping maps col to the identifier route. An overridden
// selection keeps its route; otherwise the column's values decide.
func identifierMapping(col *models.DetectedColumn, selection *IdentifierSelection, confidence float64) models.FieldMapping {
	route := InferIdentifierRoute(col)
	if selection != nil && selection.Overridden && selection.Route.IsIdentifier() {
		route = selection.Route
	}
	return models.FieldMapping{
		SourceColumnIndex: col.Index,
		SourceColumnName:  col.Name,
		TargetFieldID:     route,
		TargetFieldName:   FieldName(route),
		MatchType:         models.MatchTypeAuto,
		Confidence:        confidence,
	}
}

func aliasScore(name string, aliases []string) float64 {
	name = strings.ToLower(name)
	best := 0.0
	for _, alias := range aliases {
		if name == alias {
			return 1
		}
		if len(alias) >= 4 && strings.Contains(name, alias) && best < partialMatchScore {
			best = partialMatchScore
		}
	}
	return best
}

func typeCompatible(field models.TargetField, detected string) bool {
	switch field {
	case models.FieldRevenue, models.FieldConversionValue:
		return detected == models.ColumnTypeNumber
	case models.FieldPlatform:
		return detected == models.ColumnTypeString
	}
	return true
}

func columnWeight(col *models.DetectedColumn) float64 {
	if col.Confidence <= 0 {
		return 1
	}
	return col.Confidence
}
