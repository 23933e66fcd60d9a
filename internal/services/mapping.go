package services

import (
	"context"
	"fmt"
	"sort"

	"performance-core/internal/logger"
	"performance-core/internal/mapping"
	"performance-core/internal/models"
	"performance-core/internal/repositories"
)

// mappingService implements MappingService
type mappingService struct {
	logger        *logger.Logger
	mappingRepo   repositories.FieldMappingRepository
	dataSources   DataSourceService
	validationSvc *models.ValidationService
}

// NewMappingService creates a new mapping service
func NewMappingService(
	logger *logger.Logger,
	mappingRepo repositories.FieldMappingRepository,
	dataSources DataSourceService,
	validationSvc *models.ValidationService,
) MappingService {
	return &mappingService{
		logger:        logger,
		mappingRepo:   mappingRepo,
		dataSources:   dataSources,
		validationSvc: validationSvc,
	}
}

// GetMappings returns the saved mappings of a data source with their validation
func (s *mappingService) GetMappings(ctx context.Context, sourceID string) (*MappingState, error) {
	source, err := s.dataSources.GetDataSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	mappings, err := s.mappingRepo.GetByDataSource(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}
	return mappingState(source, mappings), nil
}

// SaveMappings replaces the mappings of a data source. Invalid sets are
// rejected and nothing is stored.
func (s *mappingService) SaveMappings(ctx context.Context, sourceID string, mappings []models.FieldMapping) (*MappingState, error) {
	source, err := s.dataSources.GetDataSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	prepared, err := s.prepare(sourceID, mappings)
	if err != nil {
		return nil, err
	}

	result := mapping.ValidateMappings(prepared, mapping.RequiredFields(source.IdentifierRoute))
	if !result.Valid {
		mappingValidationFailures.Inc()
		s.logger.WithDataSource(sourceID).
			WithField("errors", len(result.Errors)).
			Warn("Rejected invalid mappings")
		return nil, &ValidationError{Message: "mappings are invalid", Fields: result.Errors, Local: true}
	}

	if err := s.mappingRepo.ReplaceForDataSource(ctx, sourceID, prepared); err != nil {
		return nil, fmt.Errorf("failed to save mappings: %w", err)
	}

	s.logger.WithDataSource(sourceID).WithField("mappings", len(prepared)).Info("Saved mappings")
	return mappingState(source, prepared), nil
}

// AutoMap proposes mappings from the detected columns without saving them
func (s *mappingService) AutoMap(ctx context.Context, sourceID string) (*MappingState, error) {
	detection, err := s.dataSources.DetectColumns(ctx, sourceID, false)
	if err != nil {
		return nil, err
	}
	source, err := s.dataSources.GetDataSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	selection := selectionOf(source)
	proposed := mapping.AutoMap(detection.Columns, mapping.PlatformFields(selection.Route), &selection)
	for i := range proposed {
		proposed[i].DataSourceID = sourceID
	}

	s.logger.WithDataSource(sourceID).
		WithField("columns", len(detection.Columns)).
		WithField("mappings", len(proposed)).
		Info("Proposed automatic mappings")
	return mappingState(source, proposed), nil
}

// ValidateMappings checks a mapping set against the data source's required fields
func (s *mappingService) ValidateMappings(ctx context.Context, sourceID string, mappings []models.FieldMapping) (*mapping.ValidationResult, error) {
	source, err := s.dataSources.GetDataSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	result := mapping.ValidateMappings(mappings, mapping.RequiredFields(source.IdentifierRoute))
	return &result, nil
}

// prepare validates each mapping and fills in the derived fields
func (s *mappingService) prepare(sourceID string, mappings []models.FieldMapping) ([]models.FieldMapping, error) {
	prepared := make([]models.FieldMapping, 0, len(mappings))
	for i, m := range mappings {
		m.ID = ""
		m.DataSourceID = sourceID
		if m.MatchType == "" {
			m.MatchType = models.MatchTypeManual
		}
		if fields := s.validationSvc.FieldErrors(&m); len(fields) > 0 {
			prefixed := make(map[string]string, len(fields))
			for k, v := range fields {
				prefixed[fmt.Sprintf("mappings[%d].%s", i, k)] = v
			}
			return nil, &ValidationError{Message: "invalid mapping", Fields: prefixed, Local: true}
		}
		m.TargetFieldName = mapping.FieldName(m.TargetFieldID)
		prepared = append(prepared, m)
	}
	sort.SliceStable(prepared, func(a, b int) bool {
		return prepared[a].SourceColumnIndex < prepared[b].SourceColumnIndex
	})
	return prepared, nil
}

func mappingState(source *models.DataSource, mappings []models.FieldMapping) *MappingState {
	if mappings == nil {
		mappings = []models.FieldMapping{}
	}
	return &MappingState{
		DataSourceID: source.ID,
		Route:        source.IdentifierRoute,
		Fields:       mapping.PlatformFields(source.IdentifierRoute),
		Mappings:     mappings,
		Validation:   mapping.ValidateMappings(mappings, mapping.RequiredFields(source.IdentifierRoute)),
	}
}
