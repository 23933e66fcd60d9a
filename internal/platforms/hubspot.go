package platforms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"performance-core/internal/models"
)

const (
	hubSpotPageSize        = 100
	defaultHubSpotMaxPages = 10
)

var hubSpotProperties = []string{"dealname", "amount", "closedate", "dealstage", "pipeline", "hs_analytics_source", "hs_campaign"}

// HubSpotFetcher reads CRM deals, following cursor pages up to MaxPages
type HubSpotFetcher struct {
	BaseURL  string
	MaxRows  int
	MaxPages int
}

type hubSpotDeals struct {
	Results []struct {
		ID         string                 `json:"id"`
		Properties map[string]interface{} `json:"properties"`
	} `json:"results"`
	Paging *struct {
		Next *struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

// FetchTable implements Fetcher
func (f *HubSpotFetcher) FetchTable(ctx context.Context, client *http.Client, source *models.DataSource) (models.Table, error) {
	maxPages := f.MaxPages
	if maxPages <= 0 {
		maxPages = defaultHubSpotMaxPages
	}

	table := models.Table{Headers: append([]string{"id"}, hubSpotProperties...)}
	after := ""
	for page := 0; page < maxPages; page++ {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(hubSpotPageSize))
		params.Set("properties", strings.Join(hubSpotProperties, ","))
		params.Set("archived", "false")
		if after != "" {
			params.Set("after", after)
		}
		endpoint := strings.TrimRight(f.BaseURL, "/") + "/crm/v3/objects/deals?" + params.Encode()

		var payload hubSpotDeals
		if err := getJSON(ctx, client, "hubspot", endpoint, nil, &payload); err != nil {
			return models.Table{}, fmt.Errorf("failed to fetch deals page %d: %w", page+1, err)
		}

		for _, deal := range payload.Results {
			row := make([]string, 0, len(table.Headers))
			row = append(row, deal.ID)
			for _, p := range hubSpotProperties {
				row = append(row, jsonCell(deal.Properties[p]))
			}
			table.Rows = append(table.Rows, row)
		}

		if f.MaxRows > 0 && len(table.Rows) >= f.MaxRows {
			break
		}
		if payload.Paging == nil || payload.Paging.Next == nil || payload.Paging.Next.After == "" {
			break
		}
		after = payload.Paging.Next.After
	}

	table.Rows = truncateRows(table.Rows, f.MaxRows)
	return table, nil
}
