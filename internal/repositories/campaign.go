package repositories

import (
	"context"

	"performance-core/internal/database"
	"performance-core/internal/models"
)

// campaignRepository implements CampaignRepository
type campaignRepository struct {
	db *database.Connection
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *database.Connection) CampaignRepository {
	return &campaignRepository{db: db}
}

// Create creates a new campaign
func (r *campaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// GetByID retrieves a campaign by ID with its data sources
func (r *campaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).
		Preload("DataSources").
		First(&campaign, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// GetAll retrieves all campaigns, newest first
func (r *campaignRepository) GetAll(ctx context.Context) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&campaigns).Error
	return campaigns, err
}

// Update updates an existing campaign
func (r *campaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Omit("DataSources").Save(campaign).Error
}

// Delete soft deletes a campaign
func (r *campaignRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Campaign{}, "id = ?", id).Error
}
