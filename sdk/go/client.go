// Package perfcore provides a Go client SDK for the PerformanceCore REST API
package perfcore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client represents the PerformanceCore client
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	version    string
}

// ClientOption represents a client configuration option
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithToken sets the authentication token
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithVersion sets the API version
func WithVersion(version string) ClientOption {
	return func(c *Client) {
		c.version = version
	}
}

// NewClient creates a new PerformanceCore client
func NewClient(baseURL string, options ...ClientOption) *Client {
	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		version: "v1",
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// Campaign represents a marketing campaign
type Campaign struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Platform    string    `json:"platform"`
	Industry    string    `json:"industry,omitempty"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Conversions int64     `json:"conversions"`
	Spend       float64   `json:"spend"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// CampaignUpdate is a partial campaign update; nil fields are left alone
type CampaignUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Industry    *string  `json:"industry,omitempty"`
	Impressions *int64   `json:"impressions,omitempty"`
	Clicks      *int64   `json:"clicks,omitempty"`
	Conversions *int64   `json:"conversions,omitempty"`
	Spend       *float64 `json:"spend,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

// BenchmarkEntry is one industry benchmark value
type BenchmarkEntry struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Comparison puts an actual metric next to its benchmark
type Comparison struct {
	Metric       string          `json:"metric"`
	Actual       *float64        `json:"actual"`
	Benchmark    *BenchmarkEntry `json:"benchmark"`
	DeltaPercent *float64        `json:"delta_percent"`
}

// CampaignMetrics are a campaign's derived metrics and benchmark comparisons
type CampaignMetrics struct {
	CampaignID string             `json:"campaign_id"`
	Industry   string             `json:"industry,omitempty"`
	Totals     map[string]float64  `json:"totals"`
	Derived    map[string]*float64 `json:"derived"`
	Benchmarks []Comparison        `json:"benchmarks"`
}

// DashboardMetric is one formatted dashboard tile
type DashboardMetric struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Change string `json:"change"`
	Period string `json:"period"`
}

// Benchmark is a single benchmark lookup; Benchmark is nil for unsupported metrics
type Benchmark struct {
	Industry  string          `json:"industry"`
	Metric    string          `json:"metric"`
	Benchmark *BenchmarkEntry `json:"benchmark"`
	Source    string          `json:"source"`
}

// DataSource is a revenue source attached to a campaign
type DataSource struct {
	ID                    string     `json:"id,omitempty"`
	CampaignID            string     `json:"campaign_id,omitempty"`
	Name                  string     `json:"name"`
	Kind                  string     `json:"kind"`
	ExternalRef           string     `json:"external_ref,omitempty"`
	Range                 string     `json:"range,omitempty"`
	IdentifierColumnIndex *int       `json:"identifier_column_index,omitempty"`
	IdentifierRoute       string     `json:"identifier_route,omitempty"`
	IdentifierOverridden  bool       `json:"identifier_overridden"`
	CrosswalkValue        string     `json:"crosswalk_value,omitempty"`
	PlatformFilter        string     `json:"platform_filter,omitempty"`
	WebhookToken          string     `json:"webhook_token,omitempty"`
	LastRevenue           float64    `json:"last_revenue"`
	LastMatchedRows       int        `json:"last_matched_rows"`
	LastSyncedAt          *time.Time `json:"last_synced_at,omitempty"`
}

// Column is a detected source column
type Column struct {
	Index        int           `json:"index"`
	Name         string        `json:"name"`
	OriginalName string        `json:"original_name"`
	DetectedType string        `json:"detected_type"`
	Confidence   float64       `json:"confidence"`
	SampleValues []interface{} `json:"sample_values"`
	UniqueValues *int          `json:"unique_values,omitempty"`
	NullCount    int           `json:"null_count"`
}

// Identifier is the identifier column selection of a data source
type Identifier struct {
	ColumnIndex *int   `json:"column_index"`
	Route       string `json:"route"`
	Overridden  bool   `json:"overridden"`
}

// ColumnDetection is the result of column detection
type ColumnDetection struct {
	DataSourceID string     `json:"data_source_id"`
	Columns      []Column   `json:"columns"`
	Identifier   Identifier `json:"identifier"`
	Cached       bool       `json:"cached"`
}

// IdentifierUpdate changes the identifier selection; nil fields are left alone
type IdentifierUpdate struct {
	ColumnIndex    *int    `json:"column_index,omitempty"`
	Route          *string `json:"route,omitempty"`
	CrosswalkValue *string `json:"crosswalk_value,omitempty"`
	PlatformFilter *string `json:"platform_filter,omitempty"`
}

// FieldMapping maps a source column to a target field
type FieldMapping struct {
	SourceColumnIndex int     `json:"source_column_index"`
	SourceColumnName  string  `json:"source_column_name"`
	TargetFieldID     string  `json:"target_field_id"`
	TargetFieldName   string  `json:"target_field_name,omitempty"`
	MatchType         string  `json:"match_type,omitempty"`
	Confidence        float64 `json:"confidence"`
}

// MappingValidation holds per-field problems of a mapping set
type MappingValidation struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// MappingState is a data source's mappings and their validation
type MappingState struct {
	DataSourceID string            `json:"data_source_id"`
	Route        string            `json:"identifier_route"`
	Mappings     []FieldMapping    `json:"mappings"`
	Validation   MappingValidation `json:"validation"`
}

// SyncResult is the revenue summary produced by a sync
type SyncResult struct {
	DataSourceID string             `json:"data_source_id"`
	Summary      map[string]float64 `json:"summary"`
	SyncedAt     time.Time          `json:"synced_at"`
}

// Error represents an API error response
type Error struct {
	Message     string            `json:"error"`
	Status      int               `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Details     string            `json:"details,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	Destructive bool              `json:"destructive"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

// Campaign Methods

// ListCampaigns retrieves all campaigns
func (c *Client) ListCampaigns(ctx context.Context) ([]*Campaign, error) {
	var result []*Campaign
	err := c.makeRequest(ctx, "GET", "/campaigns", nil, &result)
	return result, err
}

// CreateCampaign creates a new campaign
func (c *Client) CreateCampaign(ctx context.Context, campaign *Campaign) (*Campaign, error) {
	var result Campaign
	err := c.makeRequest(ctx, "POST", "/campaigns", campaign, &result)
	return &result, err
}

// GetCampaign retrieves a specific campaign
func (c *Client) GetCampaign(ctx context.Context, id string) (*Campaign, error) {
	var result Campaign
	err := c.makeRequest(ctx, "GET", "/campaigns/"+url.PathEscape(id), nil, &result)
	return &result, err
}

// UpdateCampaign applies a partial update to a campaign
func (c *Client) UpdateCampaign(ctx context.Context, id string, update *CampaignUpdate) (*Campaign, error) {
	var result Campaign
	err := c.makeRequest(ctx, "PATCH", "/campaigns/"+url.PathEscape(id), update, &result)
	return &result, err
}

// DeleteCampaign deletes a campaign
func (c *Client) DeleteCampaign(ctx context.Context, id string) error {
	return c.makeRequest(ctx, "DELETE", "/campaigns/"+url.PathEscape(id), nil, nil)
}

// GetCampaignMetrics retrieves derived metrics and benchmark comparisons
func (c *Client) GetCampaignMetrics(ctx context.Context, id string) (*CampaignMetrics, error) {
	var result CampaignMetrics
	path := fmt.Sprintf("/campaigns/%s/metrics", url.PathEscape(id))
	err := c.makeRequest(ctx, "GET", path, nil, &result)
	return &result, err
}

// GetDashboardMetrics retrieves the dashboard tiles for a period such as "30d"
func (c *Client) GetDashboardMetrics(ctx context.Context, period string) ([]DashboardMetric, error) {
	var result []DashboardMetric
	path := "/dashboard/metrics"
	if period != "" {
		path += "?" + url.Values{"period": {period}}.Encode()
	}
	err := c.makeRequest(ctx, "GET", path, nil, &result)
	return result, err
}

// Benchmark Methods

// ListIndustries retrieves the industries with benchmarks
func (c *Client) ListIndustries(ctx context.Context) ([]string, error) {
	var result struct {
		Industries []string `json:"industries"`
	}
	err := c.makeRequest(ctx, "GET", "/benchmarks/industries", nil, &result)
	return result.Industries, err
}

// GetBenchmark looks up one benchmark
func (c *Client) GetBenchmark(ctx context.Context, industry, metric string) (*Benchmark, error) {
	var result Benchmark
	path := fmt.Sprintf("/benchmarks/%s/%s", url.PathEscape(industry), url.PathEscape(metric))
	err := c.makeRequest(ctx, "GET", path, nil, &result)
	return &result, err
}

// Data Source Methods

// ListDataSources retrieves the data sources of a campaign
func (c *Client) ListDataSources(ctx context.Context, campaignID string) ([]*DataSource, error) {
	var result []*DataSource
	path := fmt.Sprintf("/campaigns/%s/data-sources", url.PathEscape(campaignID))
	err := c.makeRequest(ctx, "GET", path, nil, &result)
	return result, err
}

// CreateDataSource attaches a data source to a campaign. Webhook sources
// carry their token in the result; it is not returned again.
func (c *Client) CreateDataSource(ctx context.Context, campaignID string, source *DataSource) (*DataSource, error) {
	var result DataSource
	path := fmt.Sprintf("/campaigns/%s/data-sources", url.PathEscape(campaignID))
	err := c.makeRequest(ctx, "POST", path, source, &result)
	return &result, err
}

// DeleteDataSource deletes a data source
func (c *Client) DeleteDataSource(ctx context.Context, id string) error {
	return c.makeRequest(ctx, "DELETE", "/data-sources/"+url.PathEscape(id), nil, nil)
}

// DetectColumns detects the columns of a data source
func (c *Client) DetectColumns(ctx context.Context, id string, refresh bool) (*ColumnDetection, error) {
	var result ColumnDetection
	path := fmt.Sprintf("/data-sources/%s/columns", url.PathEscape(id))
	if refresh {
		path += "?refresh=true"
	}
	err := c.makeRequest(ctx, "GET", path, nil, &result)
	return &result, err
}

// ColumnValues retrieves the distinct values of a column
func (c *Client) ColumnValues(ctx context.Context, id string, index, limit int) ([]string, error) {
	var result struct {
		Values []string `json:"values"`
	}
	path := fmt.Sprintf("/data-sources/%s/columns/%d/values", url.PathEscape(id), index)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	err := c.makeRequest(ctx, "GET", path, nil, &result)
	return result.Values, err
}

// SetIdentifier changes the identifier selection of a data source
func (c *Client) SetIdentifier(ctx context.Context, id string, update *IdentifierUpdate) (*DataSource, error) {
	var result DataSource
	path := fmt.Sprintf("/data-sources/%s/identifier", url.PathEscape(id))
	err := c.makeRequest(ctx, "PUT", path, update, &result)
	return &result, err
}

// GetMappings retrieves the field mappings of a data source
func (c *Client) GetMappings(ctx context.Context, id string) (*MappingState, error) {
	var result MappingState
	path := fmt.Sprintf("/data-sources/%s/mappings", url.PathEscape(id))
	err := c.makeRequest(ctx, "GET", path, nil, &result)
	return &result, err
}

// SaveMappings replaces the field mappings of a data source
func (c *Client) SaveMappings(ctx context.Context, id string, mappings []FieldMapping) (*MappingState, error) {
	var result MappingState
	path := fmt.Sprintf("/data-sources/%s/mappings", url.PathEscape(id))
	err := c.makeRequest(ctx, "PUT", path, map[string]interface{}{"mappings": mappings}, &result)
	return &result, err
}

// AutoMap suggests mappings without saving them
func (c *Client) AutoMap(ctx context.Context, id string) (*MappingState, error) {
	var result MappingState
	path := fmt.Sprintf("/data-sources/%s/mappings/auto", url.PathEscape(id))
	err := c.makeRequest(ctx, "POST", path, nil, &result)
	return &result, err
}

// Sync aggregates revenue from a data source
func (c *Client) Sync(ctx context.Context, id string) (*SyncResult, error) {
	var result SyncResult
	path := fmt.Sprintf("/data-sources/%s/sync", url.PathEscape(id))
	err := c.makeRequest(ctx, "POST", path, nil, &result)
	return &result, err
}

// PushWebhookRows sends rows to a webhook data source using its token
func (c *Client) PushWebhookRows(ctx context.Context, sourceID, webhookToken string, rows []map[string]interface{}) (int, error) {
	var result struct {
		Accepted int `json:"accepted"`
	}
	path := fmt.Sprintf("/webhooks/%s", url.PathEscape(sourceID))
	headers := map[string]string{"X-Webhook-Token": webhookToken}
	err := c.do(ctx, "POST", path, rows, &result, headers)
	return result.Accepted, err
}

// Private helper methods

func (c *Client) makeRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	return c.do(ctx, method, path, body, result, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}, headers map[string]string) error {
	url := fmt.Sprintf("%s/api/%s%s", c.baseURL, c.version, path)

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr Error
		if err := json.Unmarshal(respBody, &apiErr); err != nil {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode
		}
		return &apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
