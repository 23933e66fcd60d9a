package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"performance-core/internal/models"
)

func sampleTable() models.Table {
	return models.Table{
		Headers: []string{"Campaign Name", "Campaign ID", "Revenue ($)", "Date", "Platform", ""},
		Rows: [][]string{
			{"Summer Sale", "101", "$1,200.50", "2024-01-01", "Facebook", "x"},
			{"Brand Push", "102", "800", "2024-01-02", "Google Ads", ""},
			{"Summer Sale", "101", "(50)", "2024-01-03", "Facebook", ""},
			{"Retargeting", "", "n/a", "2024-01-04", "LinkedIn", ""},
		},
	}
}

func TestDetectColumns(t *testing.T) {
	columns := DetectColumns(sampleTable())
	require.Len(t, columns, 6)

	assert.Equal(t, "campaign_name", columns[0].Name)
	assert.Equal(t, "Campaign Name", columns[0].OriginalName)
	assert.Equal(t, models.ColumnTypeString, columns[0].DetectedType)
	require.NotNil(t, columns[0].UniqueValues)
	assert.Equal(t, 3, *columns[0].UniqueValues)

	assert.Equal(t, models.ColumnTypeNumber, columns[1].DetectedType)
	assert.Equal(t, 1, columns[1].NullCount)
	assert.Equal(t, []interface{}{101.0, 102.0, 101.0}, columns[1].SampleValues)

	assert.Equal(t, "revenue", columns[2].Name)
	assert.Equal(t, models.ColumnTypeNumber, columns[2].DetectedType)
	assert.InDelta(t, 0.75, columns[2].Confidence, 1e-9)

	assert.Equal(t, models.ColumnTypeDate, columns[3].DetectedType)
	assert.Equal(t, 1.0, columns[3].Confidence)

	assert.Equal(t, "column_6", columns[5].Name)
	assert.Equal(t, 3, columns[5].NullCount)
}

func TestDetectColumns_EmptyTable(t *testing.T) {
	assert.Empty(t, DetectColumns(models.Table{}))

	columns := DetectColumns(models.Table{Headers: []string{"a"}})
	require.Len(t, columns, 1)
	assert.Equal(t, models.ColumnTypeString, columns[0].DetectedType)
	assert.Zero(t, columns[0].Confidence)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 1,234.5 ", 1234.5, true},
		{"$99", 99, true},
		{"€10", 10, true},
		{"12.5%", 12.5, true},
		{"-7", -7, true},
		{"(300)", -300, true},
		{"", 0, false},
		{"abc", 0, false},
		{"2024-01-01", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestUniqueValues(t *testing.T) {
	table := sampleTable()

	assert.Equal(t, []string{"Facebook", "Google Ads", "LinkedIn"}, UniqueValues(table, 4, 0))
	assert.Equal(t, []string{"Summer Sale"}, UniqueValues(table, 0, 1))
	assert.Equal(t, []string{"101", "102"}, UniqueValues(table, 1, 10))
	assert.Empty(t, UniqueValues(table, 42, 10))
}
