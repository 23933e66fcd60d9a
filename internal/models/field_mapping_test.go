package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldMapping(t *testing.T) {
	validator := NewValidationService()

	t.Run("Valid field mapping", func(t *testing.T) {
		mapping := &FieldMapping{
			SourceColumnIndex: 2,
			SourceColumnName:  "Total Revenue",
			TargetFieldID:     FieldRevenue,
			TargetFieldName:   "Revenue",
			MatchType:         MatchTypeManual,
			Confidence:        1,
		}
		err := validator.ValidateStruct(mapping)
		assert.NoError(t, err)
	})

	t.Run("Invalid field mapping - unknown target field", func(t *testing.T) {
		mapping := &FieldMapping{
			SourceColumnName: "Spend",
			TargetFieldID:    TargetField("spend"),
			MatchType:        MatchTypeManual,
		}
		err := validator.ValidateStruct(mapping)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "target_field_id")
	})

	t.Run("Invalid field mapping - missing source column name", func(t *testing.T) {
		mapping := &FieldMapping{
			TargetFieldID: FieldPlatform,
			MatchType:     MatchTypeAuto,
		}
		err := validator.ValidateStruct(mapping)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "source_column_name")
	})

	t.Run("Invalid field mapping - confidence above one", func(t *testing.T) {
		mapping := &FieldMapping{
			SourceColumnName: "Campaign",
			TargetFieldID:    FieldCampaignName,
			MatchType:        MatchTypeTemplate,
			Confidence:       1.5,
		}
		err := validator.ValidateStruct(mapping)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "confidence")
	})

	t.Run("Identifier fields", func(t *testing.T) {
		assert.True(t, FieldCampaignName.IsIdentifier())
		assert.True(t, FieldCampaignID.IsIdentifier())
		assert.False(t, FieldRevenue.IsIdentifier())
		assert.False(t, FieldPlatform.IsIdentifier())
	})

	t.Run("Field mapping table name", func(t *testing.T) {
		mapping := FieldMapping{}
		assert.Equal(t, "field_mappings", mapping.TableName())
	})
}
