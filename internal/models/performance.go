package models

import (
	"time"
)

// PerformanceData is one day of delivery and revenue figures
type PerformanceData struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CampaignID  *string   `json:"campaign_id,omitempty" gorm:"type:uuid;index"`
	Date        string    `json:"date" gorm:"size:10;not null;index" validate:"required,datetime=2006-01-02"`
	Impressions int64     `json:"impressions" validate:"gte=0"`
	Clicks      int64     `json:"clicks" validate:"gte=0"`
	Conversions int64     `json:"conversions" validate:"gte=0"`
	Spend       float64   `json:"spend" gorm:"type:numeric(14,2)" validate:"gte=0"`
	Revenue     float64   `json:"revenue" gorm:"type:numeric(14,2)" validate:"gte=0"`
	Platform    string    `json:"platform,omitempty" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the table name for PerformanceData
func (PerformanceData) TableName() string {
	return "performance_data"
}

// PerformanceFilter narrows performance queries; empty fields match everything
type PerformanceFilter struct {
	CampaignID string
	Platform   string
	From       string
	To         string
}

// DashboardMetric is a headline KPI tile with its change over the previous period
type DashboardMetric struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Change string `json:"change"`
	Period string `json:"period"`
}
