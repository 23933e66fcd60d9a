package repositories

import (
	"context"

	"performance-core/internal/database"
	"performance-core/internal/models"
)

// integrationRepository implements IntegrationRepository
type integrationRepository struct {
	db *database.Connection
}

// NewIntegrationRepository creates a new integration repository
func NewIntegrationRepository(db *database.Connection) IntegrationRepository {
	return &integrationRepository{db: db}
}

// Create creates a new integration
func (r *integrationRepository) Create(ctx context.Context, integration *models.Integration) error {
	return r.db.WithContext(ctx).Create(integration).Error
}

// GetByID retrieves an integration by ID
func (r *integrationRepository) GetByID(ctx context.Context, id string) (*models.Integration, error) {
	var integration models.Integration
	if err := r.db.WithContext(ctx).First(&integration, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &integration, nil
}

// GetByPlatform retrieves the most recently updated integration for a platform
func (r *integrationRepository) GetByPlatform(ctx context.Context, platform string) (*models.Integration, error) {
	var integration models.Integration
	err := r.db.WithContext(ctx).
		Where("platform = ?", platform).
		Order("updated_at DESC").
		First(&integration).Error
	if err != nil {
		return nil, err
	}
	return &integration, nil
}

// GetAll retrieves all integrations
func (r *integrationRepository) GetAll(ctx context.Context) ([]*models.Integration, error) {
	var integrations []*models.Integration
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&integrations).Error
	return integrations, err
}

// Update updates an existing integration
func (r *integrationRepository) Update(ctx context.Context, integration *models.Integration) error {
	return r.db.WithContext(ctx).Save(integration).Error
}

// Delete soft deletes an integration
func (r *integrationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Integration{}, "id = ?", id).Error
}
