package models

// Detected column types
const (
	ColumnTypeString  = "string"
	ColumnTypeNumber  = "number"
	ColumnTypeDate    = "date"
	ColumnTypeBoolean = "boolean"
)

// DetectedColumn describes one column of a source table after type detection
type DetectedColumn struct {
	Index        int           `json:"index"`
	Name         string        `json:"name"`
	OriginalName string        `json:"original_name"`
	DetectedType string        `json:"detected_type"`
	Confidence   float64       `json:"confidence"`
	SampleValues []interface{} `json:"sample_values"`
	UniqueValues *int          `json:"unique_values,omitempty"`
	NullCount    int           `json:"null_count"`
}

// PlatformField is a canonical field definition offered to the mapping step
type PlatformField struct {
	ID       TargetField `json:"id"`
	Name     string      `json:"name"`
	Required bool        `json:"required"`
	DataType string      `json:"data_type"`
}
