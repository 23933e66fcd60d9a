package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"performance-core/internal/config"
	"performance-core/internal/logger"
	"performance-core/internal/mapping"
	"performance-core/internal/models"
	"performance-core/internal/platforms"
	"performance-core/internal/repositories"
)

const (
	maxWebhookRowsPerRequest = 1000
	webhookTableRows         = 5000
	defaultValuesLimit       = 100
)

// dataSourceService implements DataSourceService
type dataSourceService struct {
	logger          *logger.Logger
	config          *config.Config
	dataSourceRepo  repositories.DataSourceRepository
	campaignRepo    repositories.CampaignRepository
	integrationRepo repositories.IntegrationRepository
	mappingRepo     repositories.FieldMappingRepository
	webhookRepo     repositories.WebhookRowRepository
	integrations    IntegrationService
	fetchers        platforms.Fetchers
	cache           Cache
	validationSvc   *models.ValidationService
	now             func() time.Time
}

// NewDataSourceService creates a new data source service
func NewDataSourceService(
	logger *logger.Logger,
	cfg *config.Config,
	dataSourceRepo repositories.DataSourceRepository,
	campaignRepo repositories.CampaignRepository,
	integrationRepo repositories.IntegrationRepository,
	mappingRepo repositories.FieldMappingRepository,
	webhookRepo repositories.WebhookRowRepository,
	integrations IntegrationService,
	fetchers platforms.Fetchers,
	cache Cache,
	validationSvc *models.ValidationService,
) DataSourceService {
	return &dataSourceService{
		logger:          logger,
		config:          cfg,
		dataSourceRepo:  dataSourceRepo,
		campaignRepo:    campaignRepo,
		integrationRepo: integrationRepo,
		mappingRepo:     mappingRepo,
		webhookRepo:     webhookRepo,
		integrations:    integrations,
		fetchers:        fetchers,
		cache:           cache,
		validationSvc:   validationSvc,
		now:             time.Now,
	}
}

// CreateDataSource attaches a new data source to a campaign. OAuth-backed
// kinds need a connected integration; webhooks get a fresh token.
func (s *dataSourceService) CreateDataSource(ctx context.Context, campaignID string, source *models.DataSource) (*models.DataSource, error) {
	if _, err := s.campaignRepo.GetByID(ctx, campaignID); err != nil {
		return nil, lookupError(err, "campaign")
	}

	source.ID = ""
	source.CampaignID = campaignID
	source.IdentifierRoute = models.FieldCampaignName
	source.IdentifierColumnIndex = nil
	source.IdentifierOverridden = false
	source.WebhookToken = ""
	source.IntegrationID = nil

	if fields := s.validationSvc.FieldErrors(source); len(fields) > 0 {
		return nil, validationFailed("invalid data source", fields)
	}

	if source.Kind == models.DataSourceWebhook {
		source.WebhookToken = strings.ReplaceAll(uuid.NewString(), "-", "")
	} else {
		integration, err := s.integrationRepo.GetByPlatform(ctx, source.Kind.Platform())
		if err != nil || integration.Status != models.IntegrationStatusConnected {
			return nil, fmt.Errorf("%w: connect %s before adding a data source", ErrNotConnected, source.Kind.Platform())
		}
		source.IntegrationID = &integration.ID
	}

	if err := s.dataSourceRepo.Create(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to create data source: %w", err)
	}

	s.logger.WithDataSource(source.ID).
		WithField("campaign_id", campaignID).
		WithField("kind", source.Kind).
		Info("Created data source")
	return source, nil
}

// ListDataSources returns the data sources of a campaign
func (s *dataSourceService) ListDataSources(ctx context.Context, campaignID string) ([]*models.DataSource, error) {
	if _, err := s.campaignRepo.GetByID(ctx, campaignID); err != nil {
		return nil, lookupError(err, "campaign")
	}
	sources, err := s.dataSourceRepo.GetByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}
	return sources, nil
}

// GetDataSource returns one data source
func (s *dataSourceService) GetDataSource(ctx context.Context, id string) (*models.DataSource, error) {
	source, err := s.dataSourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "data source")
	}
	return source, nil
}

// DeleteDataSource removes a data source and its cached detection
func (s *dataSourceService) DeleteDataSource(ctx context.Context, id string) error {
	if _, err := s.GetDataSource(ctx, id); err != nil {
		return err
	}
	if err := s.dataSourceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete data source: %w", err)
	}
	s.invalidate(ctx, id)

	s.logger.WithDataSource(id).Info("Deleted data source")
	return nil
}

// DetectColumns returns the detected columns of a data source. Cached
// results are used unless refresh is set, which re-reads the source.
func (s *dataSourceService) DetectColumns(ctx context.Context, id string, refresh bool) (*ColumnDetection, error) {
	source, err := s.GetDataSource(ctx, id)
	if err != nil {
		return nil, err
	}

	var columns []models.DetectedColumn
	cached := false
	if refresh {
		s.invalidate(ctx, id)
	} else if s.config.Cache.Enabled {
		if err := s.cache.Get(ctx, columnsKey(id), &columns); err == nil {
			cached = true
		} else if !errors.Is(err, ErrCacheMiss) {
			s.logger.WithError(err).WithField("data_source_id", id).Warn("Column cache read failed")
		}
	}

	if !cached {
		table, err := s.fetchTable(ctx, source)
		if err != nil {
			return nil, err
		}
		columns = mapping.DetectColumns(table)
		s.store(ctx, columnsKey(id), columns, s.config.Cache.ColumnsTTL)

		s.logger.WithDataSource(id).
			WithField("columns", len(columns)).
			WithField("rows", len(table.Rows)).
			Info("Detected columns")
	}

	selection := selectionOf(source)
	if selection.ColumnIndex == nil {
		if col := defaultIdentifierColumn(columns); col != nil {
			selection.SelectColumn(col)
		}
	} else {
		selection.Refresh(columns)
	}

	if applySelection(source, selection) {
		if err := s.dataSourceRepo.Update(ctx, source); err != nil {
			return nil, fmt.Errorf("failed to save identifier selection: %w", err)
		}
	}

	return &ColumnDetection{
		DataSourceID: id,
		Columns:      columns,
		Identifier:   identifierStateOf(source),
		Cached:       cached,
	}, nil
}

// ColumnValues lists distinct values of one column for crosswalk and
// platform filter pickers
func (s *dataSourceService) ColumnValues(ctx context.Context, id string, index, limit int) ([]string, error) {
	if index < 0 {
		return nil, validationFailed("invalid column", map[string]string{"index": "must be greater than or equal to 0"})
	}
	if limit <= 0 {
		limit = defaultValuesLimit
	}

	source, err := s.GetDataSource(ctx, id)
	if err != nil {
		return nil, err
	}

	var values []string
	if s.config.Cache.Enabled {
		if err := s.cache.Get(ctx, uniqueValuesKey(id, index), &values); err == nil {
			return truncateValues(values, limit), nil
		}
	}

	table, err := s.fetchTable(ctx, source)
	if err != nil {
		return nil, err
	}
	values = mapping.UniqueValues(table, index, 0)
	s.store(ctx, uniqueValuesKey(id, index), values, s.config.Cache.UniqueValuesTTL)

	return truncateValues(values, limit), nil
}

// SetIdentifier changes the identifier column, route, crosswalk value or
// platform filter of a data source
func (s *dataSourceService) SetIdentifier(ctx context.Context, id string, req *IdentifierRequest) (*models.DataSource, error) {
	source, err := s.GetDataSource(ctx, id)
	if err != nil {
		return nil, err
	}

	selection := selectionOf(source)

	if req.ColumnIndex != nil {
		detection, err := s.DetectColumns(ctx, id, false)
		if err != nil {
			return nil, err
		}
		col := mapping.FindColumn(detection.Columns, req.ColumnIndex)
		if col == nil {
			return nil, validationFailed("invalid identifier column", map[string]string{
				"column_index": fmt.Sprintf("no column with index %d", *req.ColumnIndex),
			})
		}
		// detection may have saved a default selection
		source, err = s.GetDataSource(ctx, id)
		if err != nil {
			return nil, err
		}
		selection = selectionOf(source)
		selection.SelectColumn(col)
	}

	if req.Route != nil {
		if err := selection.Override(*req.Route); err != nil {
			return nil, validationFailed("invalid identifier route", map[string]string{"route": err.Error()})
		}
	}

	applySelection(source, selection)
	if req.CrosswalkValue != nil {
		source.CrosswalkValue = strings.TrimSpace(*req.CrosswalkValue)
	}
	if req.PlatformFilter != nil {
		source.PlatformFilter = strings.TrimSpace(*req.PlatformFilter)
	}

	if err := s.dataSourceRepo.Update(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to update identifier: %w", err)
	}

	s.logger.WithDataSource(id).
		WithField("route", source.IdentifierRoute).
		WithField("overridden", source.IdentifierOverridden).
		Info("Updated identifier selection")
	return source, nil
}

// Sync reads the data source, aggregates revenue for the campaign's
// crosswalk value and stores the summary
func (s *dataSourceService) Sync(ctx context.Context, id string) (*SyncResult, error) {
	source, err := s.GetDataSource(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.sync(ctx, source)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	dataSourceSyncs.WithLabelValues(string(source.Kind), outcome).Inc()
	return result, err
}

func (s *dataSourceService) sync(ctx context.Context, source *models.DataSource) (*SyncResult, error) {
	mappings, err := s.mappingRepo.GetByDataSource(ctx, source.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}

	validation := mapping.ValidateMappings(mappings, mapping.RequiredFields(source.IdentifierRoute))
	if !validation.Valid {
		return nil, &ValidationError{Message: "mappings are incomplete", Fields: validation.Errors, Local: true}
	}

	table, err := s.fetchTable(ctx, source)
	if err != nil {
		return nil, err
	}

	summary := mapping.AggregateRevenue(table, mappings, source.CrosswalkValue, source.PlatformFilter)
	syncedAt := s.now().UTC()

	source.LastRevenue = summary.Revenue
	source.LastConversionValue = summary.ConversionValue
	source.LastMatchedRows = summary.MatchedRows
	source.LastSyncedAt = &syncedAt
	if err := s.dataSourceRepo.Update(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to save sync result: %w", err)
	}

	if source.IntegrationID != nil {
		if err := s.integrations.MarkSynced(ctx, *source.IntegrationID, syncedAt); err != nil {
			s.logger.WithError(err).WithField("data_source_id", source.ID).Warn("Failed to record integration sync time")
		}
	}

	s.logger.WithDataSource(source.ID).
		WithField("revenue", summary.Revenue).
		WithField("matched_rows", summary.MatchedRows).
		WithField("skipped_cells", summary.SkippedCells).
		Info("Synced data source")

	return &SyncResult{DataSourceID: source.ID, Summary: summary, SyncedAt: syncedAt}, nil
}

// IngestWebhook stores rows pushed to a webhook data source after checking its token
func (s *dataSourceService) IngestWebhook(ctx context.Context, id, token string, rows []map[string]interface{}) (int, error) {
	source, err := s.dataSourceRepo.GetByID(ctx, id)
	if err != nil {
		return 0, lookupError(err, "data source")
	}
	if source.Kind != models.DataSourceWebhook || source.WebhookToken == "" ||
		subtle.ConstantTimeCompare([]byte(source.WebhookToken), []byte(token)) != 1 {
		return 0, ErrUnauthorized
	}

	if len(rows) == 0 {
		return 0, validationFailed("empty payload", map[string]string{"rows": "at least one row is required"})
	}
	if len(rows) > maxWebhookRowsPerRequest {
		return 0, validationFailed("payload too large", map[string]string{
			"rows": fmt.Sprintf("at most %d rows per request", maxWebhookRowsPerRequest),
		})
	}

	receivedAt := s.now().UTC()
	records := make([]models.WebhookRow, 0, len(rows))
	for _, r := range rows {
		records = append(records, models.WebhookRow{
			DataSourceID: id,
			Values:       models.JSONMap(r),
			ReceivedAt:   receivedAt,
		})
	}

	if err := s.webhookRepo.CreateBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to store webhook rows: %w", err)
	}
	s.invalidate(ctx, id)

	webhookRowsIngested.Add(float64(len(records)))
	s.logger.WithDataSource(id).WithField("rows", len(records)).Info("Ingested webhook rows")
	return len(records), nil
}

// fetchTable reads the current rows of a data source
func (s *dataSourceService) fetchTable(ctx context.Context, source *models.DataSource) (models.Table, error) {
	if source.Kind == models.DataSourceWebhook {
		rows, err := s.webhookRepo.GetByDataSource(ctx, source.ID, webhookTableRows)
		if err != nil {
			return models.Table{}, fmt.Errorf("failed to load webhook rows: %w", err)
		}
		return webhookTable(rows), nil
	}

	if source.IntegrationID == nil {
		return models.Table{}, fmt.Errorf("%w: data source has no integration", ErrNotConnected)
	}
	fetcher, err := s.fetchers.For(source.Kind)
	if err != nil {
		return models.Table{}, err
	}
	client, err := s.integrations.HTTPClient(ctx, *source.IntegrationID)
	if err != nil {
		return models.Table{}, err
	}

	table, err := fetcher.FetchTable(ctx, client, source)
	if err != nil {
		var apiErr *platforms.APIError
		if errors.As(err, &apiErr) && apiErr.Unauthorized() {
			if markErr := s.integrations.MarkFailed(ctx, *source.IntegrationID); markErr != nil {
				s.logger.WithError(markErr).Warn("Failed to flag integration")
			}
			return models.Table{}, fmt.Errorf("%w: %v", ErrNotConnected, err)
		}
		s.logger.WithError(err).WithField("data_source_id", source.ID).Error("Failed to read data source")
		return models.Table{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return table, nil
}

func (s *dataSourceService) store(ctx context.Context, key string, value interface{}, ttlSeconds int) {
	if !s.config.Cache.Enabled {
		return
	}
	if err := s.cache.Set(ctx, key, value, time.Duration(ttlSeconds)*time.Second); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

func (s *dataSourceService) invalidate(ctx context.Context, id string) {
	if !s.config.Cache.Enabled {
		return
	}
	if err := s.cache.Delete(ctx, columnsKey(id)); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate column cache")
	}
	if err := s.cache.DeletePattern(ctx, uniqueValuesPattern(id)); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate value cache")
	}
}

// webhookTable turns pushed rows into a table whose headers are the union of
// keys in sorted order
func webhookTable(rows []models.WebhookRow) models.Table {
	keys := map[string]struct{}{}
	for _, r := range rows {
		for k := range r.Values {
			keys[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(keys))
	for k := range keys {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	table := models.Table{Headers: headers, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		row := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := r.Values[h]; ok && v != nil {
				row[i] = cellText(v)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func cellText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return mapping.FormatNumber(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}

func selectionOf(source *models.DataSource) mapping.IdentifierSelection {
	var index *int
	if source.IdentifierColumnIndex != nil {
		i := *source.IdentifierColumnIndex
		index = &i
	}
	route := source.IdentifierRoute
	if !route.IsIdentifier() {
		route = models.FieldCampaignName
	}
	return mapping.IdentifierSelection{ColumnIndex: index, Route: route, Overridden: source.IdentifierOverridden}
}

// applySelection copies a selection onto the source and reports whether it changed
func applySelection(source *models.DataSource, sel mapping.IdentifierSelection) bool {
	changed := source.IdentifierRoute != sel.Route || source.IdentifierOverridden != sel.Overridden
	if (source.IdentifierColumnIndex == nil) != (sel.ColumnIndex == nil) ||
		(sel.ColumnIndex != nil && *source.IdentifierColumnIndex != *sel.ColumnIndex) {
		changed = true
	}
	source.IdentifierColumnIndex = sel.ColumnIndex
	source.IdentifierRoute = sel.Route
	source.IdentifierOverridden = sel.Overridden
	return changed
}

func identifierStateOf(source *models.DataSource) IdentifierState {
	return IdentifierState{
		ColumnIndex: source.IdentifierColumnIndex,
		Route:       source.IdentifierRoute,
		Overridden:  source.IdentifierOverridden,
	}
}

// defaultIdentifierColumn picks the column auto-mapping would use as identifier
func defaultIdentifierColumn(columns []models.DetectedColumn) *models.DetectedColumn {
	for _, m := range mapping.AutoMap(columns, mapping.PlatformFields(models.FieldCampaignName), nil) {
		if m.TargetFieldID.IsIdentifier() {
			idx := m.SourceColumnIndex
			return mapping.FindColumn(columns, &idx)
		}
	}
	return nil
}

func truncateValues(values []string, limit int) []string {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}
