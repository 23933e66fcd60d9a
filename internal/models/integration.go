package models

import (
	"time"

	"gorm.io/gorm"
)

// IntegrationStatus is the connection state of a platform integration
type IntegrationStatus string

const (
	IntegrationStatusConnected    IntegrationStatus = "connected"
	IntegrationStatusDisconnected IntegrationStatus = "disconnected"
	IntegrationStatusError        IntegrationStatus = "error"
)

// Platform identifiers that support OAuth connect
const (
	PlatformGoogleSheets = "google_sheets"
	PlatformLinkedIn     = "linkedin"
	PlatformHubSpot      = "hubspot"
)

// Integration is an account connection to an external marketing platform
type Integration struct {
	ID        string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Platform  string            `json:"platform" gorm:"not null;index" validate:"required,min=1"`
	Status    IntegrationStatus `json:"status" gorm:"not null;default:'disconnected'" validate:"omitempty,oneof=connected disconnected error"`
	APIKey    string            `json:"api_key,omitempty" gorm:"column:api_key"`
	AccountID string            `json:"account_id,omitempty"`
	LastSync  *time.Time        `json:"last_sync,omitempty"`

	// OAuth token material, never serialised
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	TokenType    string     `json:"-"`
	TokenExpiry  *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for Integration
func (Integration) TableName() string {
	return "integrations"
}

// HasToken reports whether OAuth tokens have been stored for this integration
func (i *Integration) HasToken() bool {
	return i.AccessToken != "" || i.RefreshToken != ""
}

// Redacted returns a copy safe to return to API clients
func (i Integration) Redacted() Integration {
	if i.APIKey != "" {
		i.APIKey = "********"
	}
	return i
}

// IntegrationUpdate carries a partial integration update
type IntegrationUpdate struct {
	Status    *IntegrationStatus `json:"status,omitempty" validate:"omitempty,oneof=connected disconnected error"`
	APIKey    *string            `json:"api_key,omitempty" validate:"omitempty,min=1"`
	AccountID *string            `json:"account_id,omitempty"`
}
