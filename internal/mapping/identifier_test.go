package mapping

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"performance-core/internal/models"
)

func column(index int, detectedType string, samples ...interface{}) *models.DetectedColumn {
	return &models.DetectedColumn{
		Index:        index,
		Name:         "col_" + strconv.Itoa(index),
		DetectedType: detectedType,
		SampleValues: samples,
	}
}

func TestInferIdentifierRoute(t *testing.T) {
	tests := []struct {
		name   string
		column *models.DetectedColumn
		want   models.TargetField
	}{
		{"absent column", nil, models.FieldCampaignName},
		{"number type", column(0, "number", "Acme"), models.FieldCampaignID},
		{"integer type mixed case", column(0, "Integer"), models.FieldCampaignID},
		{"numeric type", column(0, "NUMERIC"), models.FieldCampaignID},
		{"all digits", column(0, "string", "101", "102", "103"), models.FieldCampaignID},
		{"names", column(0, "string", "Acme Corp", "Globex"), models.FieldCampaignName},
		{"linkedin urn", column(0, "string", "Spring Push", "URN:LI:sponsoredCampaign:123"), models.FieldCampaignID},
		{"sixty percent digits", column(0, "string", "1", "2", "3", "a", "b"), models.FieldCampaignID},
		{"below sixty percent", column(0, "string", "1", "2", "a", "b", "c"), models.FieldCampaignName},
		{"blank samples ignored", column(0, "string", "  ", "", " 42 "), models.FieldCampaignID},
		{"no samples", column(0, "string"), models.FieldCampaignName},
		{"float samples", column(0, "", 12.0, 13.0), models.FieldCampaignID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferIdentifierRoute(tt.column))
		})
	}
}

func TestInferIdentifierRoute_OnlyFirstTwentySamples(t *testing.T) {
	samples := make([]interface{}, 0, 25)
	for i := 0; i < 20; i++ {
		samples = append(samples, "Campaign "+strconv.Itoa(i))
	}
	samples = append(samples, "urn:li:sponsoredCampaign:1")

	assert.Equal(t, models.FieldCampaignName, InferIdentifierRoute(column(0, "string", samples...)))
}

func TestProperty_NumericTypeRoutesToCampaignID(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a detected type containing number always routes to campaign_id", prop.ForAll(
		func(prefix, suffix string) bool {
			return InferIdentifierRoute(column(0, prefix+"number"+suffix, "Acme Corp")) == models.FieldCampaignID
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("all-digit samples route to campaign_id", prop.ForAll(
		func(ids []uint32) bool {
			if len(ids) == 0 {
				return true
			}
			samples := make([]interface{}, len(ids))
			for i, id := range ids {
				samples[i] = strconv.FormatUint(uint64(id), 10)
			}
			return InferIdentifierRoute(column(0, "string", samples...)) == models.FieldCampaignID
		},
		gen.SliceOf(gen.UInt32()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestIdentifierSelection(t *testing.T) {
	names := column(0, "string", "Acme Corp", "Globex")
	ids := column(1, "string", "101", "102")

	t.Run("infers on select", func(t *testing.T) {
		var sel IdentifierSelection
		sel.SelectColumn(ids)
		assert.Equal(t, models.FieldCampaignID, sel.Route)
		require.NotNil(t, sel.ColumnIndex)
		assert.Equal(t, 1, *sel.ColumnIndex)
	})

	t.Run("override survives refresh of the same column", func(t *testing.T) {
		var sel IdentifierSelection
		sel.SelectColumn(ids)
		require.NoError(t, sel.Override(models.FieldCampaignName))

		sel.Refresh([]models.DetectedColumn{*names, *ids})
		sel.SelectColumn(ids)

		assert.Equal(t, models.FieldCampaignName, sel.Route)
		assert.True(t, sel.Overridden)
	})

	t.Run("changing the column clears the override", func(t *testing.T) {
		var sel IdentifierSelection
		sel.SelectColumn(names)
		require.NoError(t, sel.Override(models.FieldCampaignID))

		sel.SelectColumn(ids)
		assert.False(t, sel.Overridden)
		assert.Equal(t, models.FieldCampaignID, sel.Route)

		sel.SelectColumn(names)
		assert.Equal(t, models.FieldCampaignName, sel.Route)
	})

	t.Run("rejects non identifier routes", func(t *testing.T) {
		var sel IdentifierSelection
		assert.Error(t, sel.Override(models.FieldRevenue))
		assert.False(t, sel.Overridden)
	})

	t.Run("refresh re-infers without override", func(t *testing.T) {
		var sel IdentifierSelection
		sel.SelectColumn(column(1, "string", "Acme"))
		assert.Equal(t, models.FieldCampaignName, sel.Route)

		sel.Refresh([]models.DetectedColumn{*names, *ids})
		assert.Equal(t, models.FieldCampaignID, sel.Route)
	})
}
