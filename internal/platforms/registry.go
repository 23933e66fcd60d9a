package platforms

import (
	"fmt"
	"strconv"

	"performance-core/internal/config"
	"performance-core/internal/models"
)

// Fetchers maps each OAuth-backed data source kind to its row fetcher
type Fetchers map[models.DataSourceKind]Fetcher

// NewFetchers builds fetchers from the integrations config
func NewFetchers(cfg *config.Config) Fetchers {
	maxRows := cfg.Integrations.MaxRows
	return Fetchers{
		models.DataSourceGoogleSheets: &SheetsFetcher{BaseURL: cfg.Integrations.GoogleSheets.APIBaseURL, MaxRows: maxRows},
		models.DataSourceLinkedInAds:  &LinkedInFetcher{BaseURL: cfg.Integrations.LinkedIn.APIBaseURL, MaxRows: maxRows},
		models.DataSourceHubSpot:      &HubSpotFetcher{BaseURL: cfg.Integrations.HubSpot.APIBaseURL, MaxRows: maxRows},
	}
}

// For returns the fetcher of a data source kind
func (f Fetchers) For(kind models.DataSourceKind) (Fetcher, error) {
	fetcher, ok := f[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, kind)
	}
	return fetcher, nil
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
