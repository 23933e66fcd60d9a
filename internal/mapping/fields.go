package mapping

import "performance-core/internal/models"

var fieldNames = map[models.TargetField]string{
	models.FieldCampaignName:    "Campaign Name",
	models.FieldCampaignID:      "Campaign ID",
	models.FieldRevenue:         "Revenue",
	models.FieldConversionValue: "Conversion Value",
	models.FieldPlatform:        "Platform",
}

// FieldName returns the display name of a target field
func FieldName(field models.TargetField) string {
	if name, ok := fieldNames[field]; ok {
		return name
	}
	return string(field)
}

// RequiredFields lists the fields that must be mapped for the given
// identifier route: the identifier itself plus revenue.
func RequiredFields(route models.TargetField) []models.TargetField {
	if !route.IsIdentifier() {
		route = models.FieldCampaignName
	}
	return []models.TargetField{route, models.FieldRevenue}
}

// PlatformFields returns the field definitions offered for mapping under the
// given identifier route.
func PlatformFields(route models.TargetField) []models.PlatformField {
	if !route.IsIdentifier() {
		route = models.FieldCampaignName
	}
	identifierType := models.ColumnTypeString
	if route == models.FieldCampaignID {
		identifierType = models.ColumnTypeNumber
	}
	return []models.PlatformField{
		{ID: route, Name: FieldName(route), Required: true, DataType: identifierType},
		{ID: models.FieldRevenue, Name: FieldName(models.FieldRevenue), Required: true, DataType: models.ColumnTypeNumber},
		{ID: models.FieldConversionValue, Name: FieldName(models.FieldConversionValue), Required: false, DataType: models.ColumnTypeNumber},
		{ID: models.FieldPlatform, Name: FieldName(models.FieldPlatform), Required: false, DataType: models.ColumnTypeString},
	}
}
