package services

import (
	"context"
	"net/http"
	"time"

	"performance-core/internal/analytics"
	"performance-core/internal/benchmarks"
	"performance-core/internal/mapping"
	"performance-core/internal/models"
)

// CampaignService defines the interface for campaign operations
type CampaignService interface {
	ListCampaigns(ctx context.Context) ([]*models.Campaign, error)
	CreateCampaign(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*models.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, update *models.CampaignUpdate) (*models.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
	GetCampaignMetrics(ctx context.Context, id string) (*CampaignMetrics, error)
}

// IntegrationService defines the interface for platform integration operations
type IntegrationService interface {
	ListIntegrations(ctx context.Context) ([]models.Integration, error)
	CreateIntegration(ctx context.Context, integration *models.Integration) (*models.Integration, error)
	UpdateIntegration(ctx context.Context, id string, update *models.IntegrationUpdate) (*models.Integration, error)
	DeleteIntegration(ctx context.Context, id string) error
	StartOAuth(ctx context.Context, platform string) (*OAuthStart, error)
	CompleteOAuth(ctx context.Context, platform, state, code string) (*models.Integration, error)
	HTTPClient(ctx context.Context, integrationID string) (*http.Client, error)
	MarkSynced(ctx context.Context, integrationID string, at time.Time) error
	MarkFailed(ctx context.Context, integrationID string) error
}

// DataSourceService defines the interface for data source operations
type DataSourceService interface {
	CreateDataSource(ctx context.Context, campaignID string, source *models.DataSource) (*models.DataSource, error)
	ListDataSources(ctx context.Context, campaignID string) ([]*models.DataSource, error)
	GetDataSource(ctx context.Context, id string) (*models.DataSource, error)
	DeleteDataSource(ctx context.Context, id string) error
	DetectColumns(ctx context.Context, id string, refresh bool) (*ColumnDetection, error)
	ColumnValues(ctx context.Context, id string, index, limit int) ([]string, error)
	SetIdentifier(ctx context.Context, id string, req *IdentifierRequest) (*models.DataSource, error)
	Sync(ctx context.Context, id string) (*SyncResult, error)
	IngestWebhook(ctx context.Context, id, token string, rows []map[string]interface{}) (int, error)
}

// MappingService defines the interface for column mapping operations
type MappingService interface {
	GetMappings(ctx context.Context, sourceID string) (*MappingState, error)
	SaveMappings(ctx context.Context, sourceID string, mappings []models.FieldMapping) (*MappingState, error)
	AutoMap(ctx context.Context, sourceID string) (*MappingState, error)
	ValidateMappings(ctx context.Context, sourceID string, mappings []models.FieldMapping) (*mapping.ValidationResult, error)
}

// BenchmarkService defines the interface for industry benchmark lookups
type BenchmarkService interface {
	Industries() []string
	IndustryTable(industry string) map[string]benchmarks.Entry
	Lookup(industry, metric string) (*benchmarks.Entry, benchmarks.Source)
}

// PerformanceService defines the interface for performance data and dashboard KPIs
type PerformanceService interface {
	ListPerformance(ctx context.Context, filter models.PerformanceFilter) ([]*models.PerformanceData, error)
	RecordPerformance(ctx context.Context, row *models.PerformanceData) (*models.PerformanceData, error)
	DashboardMetrics(ctx context.Context, period string) ([]models.DashboardMetric, error)
}

// CampaignMetrics are a campaign's derived metrics next to its industry benchmarks
type CampaignMetrics struct {
	CampaignID string                 `json:"campaign_id"`
	Industry   string                 `json:"industry,omitempty"`
	Totals     analytics.Totals       `json:"totals"`
	Derived    analytics.Derived      `json:"derived"`
	Benchmarks []analytics.Comparison `json:"benchmarks"`
}

// OAuthStart is the consent URL a client should open and the state it carries
type OAuthStart struct {
	Platform string `json:"platform"`
	AuthURL  string `json:"auth_url"`
	State    string `json:"state"`
}

// IdentifierState is the identifier column selection of a data source
type IdentifierState struct {
	ColumnIndex *int               `json:"column_index"`
	Route       models.TargetField `json:"route"`
	Overridden  bool               `json:"overridden"`
}

// ColumnDetection is the result of detecting a data source's columns
type ColumnDetection struct {
	DataSourceID string                  `json:"data_source_id"`
	Columns      []models.DetectedColumn `json:"columns"`
	Identifier   IdentifierState         `json:"identifier"`
	Cached       bool                    `json:"cached"`
}

// IdentifierRequest changes the identifier selection; nil fields are left alone
type IdentifierRequest struct {
	ColumnIndex    *int                `json:"column_index,omitempty"`
	Route          *models.TargetField `json:"route,omitempty"`
	CrosswalkValue *string             `json:"crosswalk_value,omitempty"`
	PlatformFilter *string             `json:"platform_filter,omitempty"`
}

// SyncResult is the revenue summary produced by a sync
type SyncResult struct {
	DataSourceID string                 `json:"data_source_id"`
	Summary      mapping.RevenueSummary `json:"summary"`
	SyncedAt     time.Time              `json:"synced_at"`
}

// MappingState is a data source's mappings with the fields on offer and their validation
type MappingState struct {
	DataSourceID string                   `json:"data_source_id"`
	Route        models.TargetField       `json:"identifier_route"`
	Fields       []models.PlatformField   `json:"fields"`
	Mappings     []models.FieldMapping    `json:"mappings"`
	Validation   mapping.ValidationResult `json:"validation"`
}
