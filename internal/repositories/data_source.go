package repositories

import (
	"context"

	"performance-core/internal/database"
	"performance-core/internal/models"
)

// dataSourceRepository implements DataSourceRepository
type dataSourceRepository struct {
	db *database.Connection
}

// NewDataSourceRepository creates a new data source repository
func NewDataSourceRepository(db *database.Connection) DataSourceRepository {
	return &dataSourceRepository{db: db}
}

// Create creates a new data source
func (r *dataSourceRepository) Create(ctx context.Context, source *models.DataSource) error {
	return r.db.WithContext(ctx).Create(source).Error
}

// GetByID retrieves a data source with its integration and mappings
func (r *dataSourceRepository) GetByID(ctx context.Context, id string) (*models.DataSource, error) {
	var source models.DataSource
	err := r.db.WithContext(ctx).
		Preload("Integration").
		Preload("FieldMappings").
		First(&source, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// GetByCampaign retrieves all data sources of a campaign
func (r *dataSourceRepository) GetByCampaign(ctx context.Context, campaignID string) ([]*models.DataSource, error) {
	var sources []*models.DataSource
	err := r.db.WithContext(ctx).
		Preload("FieldMappings").
		Where("campaign_id = ?", campaignID).
		Order("created_at ASC").
		Find(&sources).Error
	return sources, err
}

// GetByWebhookToken retrieves the webhook data source owning token
func (r *dataSourceRepository) GetByWebhookToken(ctx context.Context, token string) (*models.DataSource, error) {
	var source models.DataSource
	err := r.db.WithContext(ctx).
		Where("webhook_token = ? AND kind = ?", token, models.DataSourceWebhook).
		First(&source).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// Update updates an existing data source without touching its associations
func (r *dataSourceRepository) Update(ctx context.Context, source *models.DataSource) error {
	return r.db.WithContext(ctx).
		Omit("Campaign", "Integration", "FieldMappings").
		Save(source).Error
}

// Delete soft deletes a data source
func (r *dataSourceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.DataSource{}, "id = ?", id).Error
}

// SumRevenueByCampaign sums the last synced revenue of a campaign's data sources
func (r *dataSourceRepository) SumRevenueByCampaign(ctx context.Context, campaignID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.DataSource{}).
		Where("campaign_id = ?", campaignID).
		Select("COALESCE(SUM(last_revenue), 0)").
		Scan(&total).Error
	return total, err
}
