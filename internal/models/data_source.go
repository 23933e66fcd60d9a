package models

import (
	"time"

	"gorm.io/gorm"
)

// DataSourceKind identifies where a data source's rows come from
type DataSourceKind string

const (
	DataSourceGoogleSheets DataSourceKind = "google_sheets"
	DataSourceLinkedInAds  DataSourceKind = "linkedin_ads"
	DataSourceHubSpot      DataSourceKind = "hubspot"
	DataSourceWebhook      DataSourceKind = "webhook"
)

// Platform returns the integration platform backing the kind, empty for webhooks
func (k DataSourceKind) Platform() string {
	switch k {
	case DataSourceGoogleSheets:
		return PlatformGoogleSheets
	case DataSourceLinkedInAds:
		return PlatformLinkedIn
	case DataSourceHubSpot:
		return PlatformHubSpot
	default:
		return ""
	}
}

// DataSource is a dataset connected to a campaign
type DataSource struct {
	ID            string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CampaignID    string         `json:"campaign_id" gorm:"type:uuid;not null;index" validate:"required"`
	IntegrationID *string        `json:"integration_id,omitempty" gorm:"type:uuid;index"`
	Name          string         `json:"name" gorm:"not null" validate:"required,min=1,max=255"`
	Kind          DataSourceKind `json:"kind" gorm:"not null" validate:"required,oneof=google_sheets linkedin_ads hubspot webhook"`
	ExternalRef   string         `json:"external_ref,omitempty" validate:"required_unless=Kind webhook"`
	Range         string         `json:"range,omitempty"`

	// Identifier column selection; a manual route survives re-detection until the column changes
	IdentifierColumnIndex *int        `json:"identifier_column_index,omitempty"`
	IdentifierRoute       TargetField `json:"identifier_route" gorm:"not null;default:'campaign_name'"`
	IdentifierOverridden  bool        `json:"identifier_overridden" gorm:"default:false"`

	CrosswalkValue string `json:"crosswalk_value,omitempty"`
	PlatformFilter string `json:"platform_filter,omitempty"`
	WebhookToken   string `json:"-" gorm:"index"`

	LastRevenue         float64    `json:"last_revenue"`
	LastConversionValue float64    `json:"last_conversion_value"`
	LastMatchedRows     int        `json:"last_matched_rows"`
	LastSyncedAt        *time.Time `json:"last_synced_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Campaign      *Campaign      `json:"campaign,omitempty" gorm:"foreignKey:CampaignID"`
	Integration   *Integration   `json:"integration,omitempty" gorm:"foreignKey:IntegrationID"`
	FieldMappings []FieldMapping `json:"field_mappings,omitempty" gorm:"foreignKey:DataSourceID"`
}

// TableName returns the table name for DataSource
func (DataSource) TableName() string {
	return "data_sources"
}

// WebhookRow is one record pushed to a webhook data source
type WebhookRow struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	DataSourceID string    `json:"data_source_id" gorm:"type:uuid;not null;index"`
	Values       JSONMap   `json:"values" gorm:"type:jsonb;not null"`
	ReceivedAt   time.Time `json:"received_at" gorm:"not null;index"`
}

// TableName returns the table name for WebhookRow
func (WebhookRow) TableName() string {
	return "webhook_rows"
}
