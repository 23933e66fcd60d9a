package repositories

import (
	"context"
	"time"

	"performance-core/internal/models"
)

// CampaignRepository defines the interface for campaign data operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	GetAll(ctx context.Context) ([]*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	Delete(ctx context.Context, id string) error
}

// IntegrationRepository defines the interface for integration data operations
type IntegrationRepository interface {
	Create(ctx context.Context, integration *models.Integration) error
	GetByID(ctx context.Context, id string) (*models.Integration, error)
	GetByPlatform(ctx context.Context, platform string) (*models.Integration, error)
	GetAll(ctx context.Context) ([]*models.Integration, error)
	Update(ctx context.Context, integration *models.Integration) error
	Delete(ctx context.Context, id string) error
}

// DataSourceRepository defines the interface for data source operations
type DataSourceRepository interface {
	Create(ctx context.Context, source *models.DataSource) error
	GetByID(ctx context.Context, id string) (*models.DataSource, error)
	GetByCampaign(ctx context.Context, campaignID string) ([]*models.DataSource, error)
	GetByWebhookToken(ctx context.Context, token string) (*models.DataSource, error)
	Update(ctx context.Context, source *models.DataSource) error
	Delete(ctx context.Context, id string) error
	SumRevenueByCampaign(ctx context.Context, campaignID string) (float64, error)
}

// FieldMappingRepository defines the interface for field mapping data operations
type FieldMappingRepository interface {
	GetByDataSource(ctx context.Context, dataSourceID string) ([]models.FieldMapping, error)
	ReplaceForDataSource(ctx context.Context, dataSourceID string, mappings []models.FieldMapping) error
}

// WebhookRowRepository defines the interface for webhook row storage
type WebhookRowRepository interface {
	CreateBatch(ctx context.Context, rows []models.WebhookRow) error
	GetByDataSource(ctx context.Context, dataSourceID string, limit int) ([]models.WebhookRow, error)
	DeleteOlderThan(ctx context.Context, dataSourceID string, before time.Time) (int64, error)
}

// PerformanceRepository defines the interface for performance data operations
type PerformanceRepository interface {
	Create(ctx context.Context, row *models.PerformanceData) error
	Find(ctx context.Context, filter models.PerformanceFilter) ([]*models.PerformanceData, error)
}
