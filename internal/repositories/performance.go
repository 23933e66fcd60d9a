package repositories

import (
	"context"

	"performance-core/internal/database"
	"performance-core/internal/models"
)

// performanceRepository implements PerformanceRepository
type performanceRepository struct {
	db *database.Connection
}

// NewPerformanceRepository creates a new performance repository
func NewPerformanceRepository(db *database.Connection) PerformanceRepository {
	return &performanceRepository{db: db}
}

// Create stores one performance row
func (r *performanceRepository) Create(ctx context.Context, row *models.PerformanceData) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Find retrieves performance rows matching filter ordered by date
func (r *performanceRepository) Find(ctx context.Context, filter models.PerformanceFilter) ([]*models.PerformanceData, error) {
	query := r.db.WithContext(ctx).Model(&models.PerformanceData{})
	if filter.CampaignID != "" {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.Platform != "" {
		query = query.Where("LOWER(platform) = LOWER(?)", filter.Platform)
	}
	if filter.From != "" {
		query = query.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("date <= ?", filter.To)
	}

	var rows []*models.PerformanceData
	err := query.Order("date ASC").Find(&rows).Error
	return rows, err
}
