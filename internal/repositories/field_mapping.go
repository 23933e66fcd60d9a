package repositories

import (
	"context"

	"gorm.io/gorm"

	"performance-core/internal/database"
	"performance-core/internal/models"
)

// fieldMappingRepository implements FieldMappingRepository
type fieldMappingRepository struct {
	db *database.Connection
}

// NewFieldMappingRepository creates a new field mapping repository
func NewFieldMappingRepository(db *database.Connection) FieldMappingRepository {
	return &fieldMappingRepository{db: db}
}

// GetByDataSource retrieves the mappings of a data source ordered by column
func (r *fieldMappingRepository) GetByDataSource(ctx context.Context, dataSourceID string) ([]models.FieldMapping, error) {
	var mappings []models.FieldMapping
	err := r.db.WithContext(ctx).
		Where("data_source_id = ?", dataSourceID).
		Order("source_column_index ASC").
		Find(&mappings).Error
	return mappings, err
}

// ReplaceForDataSource swaps the full mapping set of a data source in one transaction
func (r *fieldMappingRepository) ReplaceForDataSource(ctx context.Context, dataSourceID string, mappings []models.FieldMapping) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("data_source_id = ?", dataSourceID).Delete(&models.FieldMapping{}).Error; err != nil {
			return err
		}
		if len(mappings) == 0 {
			return nil
		}
		for i := range mappings {
			mappings[i].ID = ""
			mappings[i].DataSourceID = dataSourceID
		}
		return tx.Create(&mappings).Error
	})
}
