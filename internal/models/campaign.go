package models

import (
	"time"

	"gorm.io/gorm"
)

// CampaignStatus is the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusDraft     CampaignStatus = "draft"
)

// Campaign is a marketing campaign that data sources attach revenue to
type Campaign struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string         `json:"name" gorm:"not null" validate:"required,min=1,max=200"`
	Type        string         `json:"type" gorm:"not null" validate:"required"`
	Platform    string         `json:"platform" gorm:"not null;index" validate:"required"`
	Industry    string         `json:"industry,omitempty" gorm:"index" validate:"max=100"`
	Impressions int64          `json:"impressions" gorm:"default:0" validate:"gte=0"`
	Clicks      int64          `json:"clicks" gorm:"default:0" validate:"gte=0"`
	Conversions int64          `json:"conversions" gorm:"default:0" validate:"gte=0"`
	Spend       float64        `json:"spend" gorm:"type:numeric(14,2);default:0" validate:"gte=0"`
	Status      CampaignStatus `json:"status" gorm:"not null;default:'active'" validate:"omitempty,oneof=active paused completed draft"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	DataSources []DataSource `json:"data_sources,omitempty" gorm:"foreignKey:CampaignID"`
}

// TableName returns the table name for Campaign
func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignUpdate carries a partial campaign update; nil fields are left untouched
type CampaignUpdate struct {
	Name        *string         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Type        *string         `json:"type,omitempty" validate:"omitempty,min=1"`
	Platform    *string         `json:"platform,omitempty" validate:"omitempty,min=1"`
	Industry    *string         `json:"industry,omitempty" validate:"omitempty,max=100"`
	Impressions *int64          `json:"impressions,omitempty" validate:"omitempty,gte=0"`
	Clicks      *int64          `json:"clicks,omitempty" validate:"omitempty,gte=0"`
	Conversions *int64          `json:"conversions,omitempty" validate:"omitempty,gte=0"`
	Spend       *float64        `json:"spend,omitempty" validate:"omitempty,gte=0"`
	Status      *CampaignStatus `json:"status,omitempty" validate:"omitempty,oneof=active paused completed draft"`
}

// Apply copies the set fields of the update onto the campaign
func (u *CampaignUpdate) Apply(c *Campaign) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Type != nil {
		c.Type = *u.Type
	}
	if u.Platform != nil {
		c.Platform = *u.Platform
	}
	if u.Industry != nil {
		c.Industry = *u.Industry
	}
	if u.Impressions != nil {
		c.Impressions = *u.Impressions
	}
	if u.Clicks != nil {
		c.Clicks = *u.Clicks
	}
	if u.Conversions != nil {
		c.Conversions = *u.Conversions
	}
	if u.Spend != nil {
		c.Spend = *u.Spend
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
}
