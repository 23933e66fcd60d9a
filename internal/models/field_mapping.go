package models

import (
	"time"
)

// TargetField is a canonical field a source column can be mapped to
type TargetField string

const (
	FieldCampaignName    TargetField = "campaign_name"
	FieldCampaignID      TargetField = "campaign_id"
	FieldRevenue         TargetField = "revenue"
	FieldConversionValue TargetField = "conversion_value"
	FieldPlatform        TargetField = "platform"
)

// IsIdentifier reports whether the field identifies a campaign
func (f TargetField) IsIdentifier() bool {
	return f == FieldCampaignName || f == FieldCampaignID
}

// MatchType records how a mapping was produced
type MatchType string

const (
	MatchTypeAuto     MatchType = "auto"
	MatchTypeManual   MatchType = "manual"
	MatchTypeTemplate MatchType = "template"
)

// FieldMapping associates a source column with a canonical field
type FieldMapping struct {
	ID                string      `json:"id,omitempty" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	DataSourceID      string      `json:"data_source_id,omitempty" gorm:"type:uuid;not null;index"`
	SourceColumnIndex int         `json:"source_column_index" gorm:"not null" validate:"gte=0"`
	SourceColumnName  string      `json:"source_column_name" gorm:"not null" validate:"required"`
	TargetFieldID     TargetField `json:"target_field_id" gorm:"not null" validate:"required,oneof=campaign_name campaign_id revenue conversion_value platform"`
	TargetFieldName   string      `json:"target_field_name"`
	MatchType         MatchType   `json:"match_type" gorm:"not null;default:'manual'" validate:"required,oneof=auto manual template"`
	Confidence        float64     `json:"confidence" validate:"gte=0,lte=1"`
	CreatedAt         time.Time   `json:"created_at,omitempty"`
	UpdatedAt         time.Time   `json:"updated_at,omitempty"`
}

// TableName returns the table name for FieldMapping
func (FieldMapping) TableName() string {
	return "field_mappings"
}
