package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"performance-core/internal/config"
	"performance-core/internal/logger"
	"performance-core/internal/models"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(&config.Config{Logging: config.LoggingConfig{Level: "error", Format: "json"}})
}

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			ColumnsTTL:      900,
			UniqueValuesTTL: 300,
			OAuthStateTTL:   600,
		},
		Integrations: config.IntegrationsConfig{
			LinkedIn:       config.OAuthClientConfig{ClientID: "linkedin-client", ClientSecret: "secret", Scopes: []string{"r_ads"}},
			RequestTimeout: 5,
		},
	}
}

// Mock repositories for testing
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	args := m.Called(ctx, id)
	campaign, _ := args.Get(0).(*models.Campaign)
	return campaign, args.Error(1)
}

func (m *MockCampaignRepository) GetAll(ctx context.Context) ([]*models.Campaign, error) {
	args := m.Called(ctx)
	campaigns, _ := args.Get(0).([]*models.Campaign)
	return campaigns, args.Error(1)
}

func (m *MockCampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockIntegrationRepository struct {
	mock.Mock
}

func (m *MockIntegrationRepository) Create(ctx context.Context, integration *models.Integration) error {
	args := m.Called(ctx, integration)
	return args.Error(0)
}

func (m *MockIntegrationRepository) GetByID(ctx context.Context, id string) (*models.Integration, error) {
	args := m.Called(ctx, id)
	integration, _ := args.Get(0).(*models.Integration)
	return integration, args.Error(1)
}

func (m *MockIntegrationRepository) GetByPlatform(ctx context.Context, platform string) (*models.Integration, error) {
	args := m.Called(ctx, platform)
	integration, _ := args.Get(0).(*models.Integration)
	return integration, args.Error(1)
}

func (m *MockIntegrationRepository) GetAll(ctx context.Context) ([]*models.Integration, error) {
	args := m.Called(ctx)
	integrations, _ := args.Get(0).([]*models.Integration)
	return integrations, args.Error(1)
}

func (m *MockIntegrationRepository) Update(ctx context.Context, integration *models.Integration) error {
	args := m.Called(ctx, integration)
	return args.Error(0)
}

func (m *MockIntegrationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDataSourceRepository struct {
	mock.Mock
}

func (m *MockDataSourceRepository) Create(ctx context.Context, source *models.DataSource) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}

func (m *MockDataSourceRepository) GetByID(ctx context.Context, id string) (*models.DataSource, error) {
	args := m.Called(ctx, id)
	source, _ := args.Get(0).(*models.DataSource)
	return source, args.Error(1)
}

func (m *MockDataSourceRepository) GetByCampaign(ctx context.Context, campaignID string) ([]*models.DataSource, error) {
	args := m.Called(ctx, campaignID)
	sources, _ := args.Get(0).([]*models.DataSource)
	return sources, args.Error(1)
}

func (m *MockDataSourceRepository) GetByWebhookToken(ctx context.Context, token string) (*models.DataSource, error) {
	args := m.Called(ctx, token)
	source, _ := args.Get(0).(*models.DataSource)
	return source, args.Error(1)
}

func (m *MockDataSourceRepository) Update(ctx context.Context, source *models.DataSource) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}

func (m *MockDataSourceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDataSourceRepository) SumRevenueByCampaign(ctx context.Context, campaignID string) (float64, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).(float64), args.Error(1)
}

type MockFieldMappingRepository struct {
	mock.Mock
}

func (m *MockFieldMappingRepository) GetByDataSource(ctx context.Context, dataSourceID string) ([]models.FieldMapping, error) {
	args := m.Called(ctx, dataSourceID)
	mappings, _ := args.Get(0).([]models.FieldMapping)
	return mappings, args.Error(1)
}

func (m *MockFieldMappingRepository) ReplaceForDataSource(ctx context.Context, dataSourceID string, mappings []models.FieldMapping) error {
	args := m.Called(ctx, dataSourceID, mappings)
	return args.Error(0)
}

type MockWebhookRowRepository struct {
	mock.Mock
}

func (m *MockWebhookRowRepository) CreateBatch(ctx context.Context, rows []models.WebhookRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockWebhookRowRepository) GetByDataSource(ctx context.Context, dataSourceID string, limit int) ([]models.WebhookRow, error) {
	args := m.Called(ctx, dataSourceID, limit)
	rows, _ := args.Get(0).([]models.WebhookRow)
	return rows, args.Error(1)
}

func (m *MockWebhookRowRepository) DeleteOlderThan(ctx context.Context, dataSourceID string, before time.Time) (int64, error) {
	args := m.Called(ctx, dataSourceID, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockPerformanceRepository struct {
	mock.Mock
}

func (m *MockPerformanceRepository) Create(ctx context.Context, row *models.PerformanceData) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockPerformanceRepository) Find(ctx context.Context, filter models.PerformanceFilter) ([]*models.PerformanceData, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]*models.PerformanceData)
	return rows, args.Error(1)
}

type MockIntegrationService struct {
	mock.Mock
}

func (m *MockIntegrationService) ListIntegrations(ctx context.Context) ([]models.Integration, error) {
	args := m.Called(ctx)
	integrations, _ := args.Get(0).([]models.Integration)
	return integrations, args.Error(1)
}

func (m *MockIntegrationService) CreateIntegration(ctx context.Context, integration *models.Integration) (*models.Integration, error) {
	args := m.Called(ctx, integration)
	i, _ := args.Get(0).(*models.Integration)
	return i, args.Error(1)
}

func (m *MockIntegrationService) UpdateIntegration(ctx context.Context, id string, update *models.IntegrationUpdate) (*models.Integration, error) {
	args := m.Called(ctx, id, update)
	i, _ := args.Get(0).(*models.Integration)
	return i, args.Error(1)
}

func (m *MockIntegrationService) DeleteIntegration(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIntegrationService) StartOAuth(ctx context.Context, platform string) (*OAuthStart, error) {
	args := m.Called(ctx, platform)
	start, _ := args.Get(0).(*OAuthStart)
	return start, args.Error(1)
}

func (m *MockIntegrationService) CompleteOAuth(ctx context.Context, platform, state, code string) (*models.Integration, error) {
	args := m.Called(ctx, platform, state, code)
	i, _ := args.Get(0).(*models.Integration)
	return i, args.Error(1)
}

func (m *MockIntegrationService) HTTPClient(ctx context.Context, integrationID string) (*http.Client, error) {
	args := m.Called(ctx, integrationID)
	client, _ := args.Get(0).(*http.Client)
	return client, args.Error(1)
}

func (m *MockIntegrationService) MarkSynced(ctx context.Context, integrationID string, at time.Time) error {
	args := m.Called(ctx, integrationID, at)
	return args.Error(0)
}

func (m *MockIntegrationService) MarkFailed(ctx context.Context, integrationID string) error {
	args := m.Called(ctx, integrationID)
	return args.Error(0)
}

// memoryCache is an in-process Cache with the same JSON round trip as Redis
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.items[key]
	c.mu.Unlock()
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) GetDel(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items[key] = data
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// stubFetcher returns a fixed table and counts calls
type stubFetcher struct {
	table models.Table
	err   error
	calls int
}

func (f *stubFetcher) FetchTable(ctx context.Context, client *http.Client, source *models.DataSource) (models.Table, error) {
	f.calls++
	return f.table, f.err
}
