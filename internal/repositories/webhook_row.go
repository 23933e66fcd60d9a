package repositories

import (
	"context"
	"time"

	"performance-core/internal/database"
	"performance-core/internal/models"
)

const webhookInsertBatch = 500

// webhookRowRepository implements WebhookRowRepository
type webhookRowRepository struct {
	db *database.Connection
}

// NewWebhookRowRepository creates a new webhook row repository
func NewWebhookRowRepository(db *database.Connection) WebhookRowRepository {
	return &webhookRowRepository{db: db}
}

// CreateBatch stores pushed rows
func (r *webhookRowRepository) CreateBatch(ctx context.Context, rows []models.WebhookRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&rows, webhookInsertBatch).Error
}

// GetByDataSource retrieves the most recent rows of a data source in arrival order
func (r *webhookRowRepository) GetByDataSource(ctx context.Context, dataSourceID string, limit int) ([]models.WebhookRow, error) {
	var rows []models.WebhookRow
	query := r.db.WithContext(ctx).
		Where("data_source_id = ?", dataSourceID).
		Order("received_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// DeleteOlderThan prunes rows received before the cutoff
func (r *webhookRowRepository) DeleteOlderThan(ctx context.Context, dataSourceID string, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("data_source_id = ? AND received_at < ?", dataSourceID, before).
		Delete(&models.WebhookRow{})
	return result.RowsAffected, result.Error
}
