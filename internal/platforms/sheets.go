package platforms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"performance-core/internal/models"
)

const defaultSheetRange = "A1:Z1000"

// SheetsFetcher reads a spreadsheet range through the Sheets values API.
// The first row is the header row.
type SheetsFetcher struct {
	BaseURL string
	MaxRows int
}

type sheetValues struct {
	Range  string          `json:"range"`
	Values [][]interface{} `json:"values"`
}

// FetchTable implements Fetcher
func (f *SheetsFetcher) FetchTable(ctx context.Context, client *http.Client, source *models.DataSource) (models.Table, error) {
	if source.ExternalRef == "" {
		return models.Table{}, fmt.Errorf("spreadsheet id is required")
	}
	rng := source.Range
	if rng == "" {
		rng = defaultSheetRange
	}

	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?majorDimension=ROWS&valueRenderOption=UNFORMATTED_VALUE",
		strings.TrimRight(f.BaseURL, "/"), url.PathEscape(source.ExternalRef), url.PathEscape(rng))

	var payload sheetValues
	if err := getJSON(ctx, client, "google_sheets", endpoint, nil, &payload); err != nil {
		return models.Table{}, err
	}

	var table models.Table
	if len(payload.Values) == 0 {
		return table, nil
	}
	for _, v := range payload.Values[0] {
		table.Headers = append(table.Headers, jsonCell(v))
	}
	for _, raw := range payload.Values[1:] {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = jsonCell(v)
		}
		table.Rows = append(table.Rows, row)
	}
	table.Rows = truncateRows(table.Rows, f.MaxRows)
	return table, nil
}
