package analytics

import (
	"performance-core/internal/models"
)

// Totals are the summed delivery and revenue figures a set of metrics is derived from
type Totals struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
}

// Add returns the sum of two totals
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Impressions: t.Impressions + o.Impressions,
		Clicks:      t.Clicks + o.Clicks,
		Conversions: t.Conversions + o.Conversions,
		Spend:       t.Spend + o.Spend,
		Revenue:     t.Revenue + o.Revenue,
	}
}

// TotalsFromPerformance sums performance rows
func TotalsFromPerformance(rows []models.PerformanceData) Totals {
	var t Totals
	for _, r := range rows {
		t = t.Add(Totals{
			Impressions: r.Impressions,
			Clicks:      r.Clicks,
			Conversions: r.Conversions,
			Spend:       r.Spend,
			Revenue:     r.Revenue,
		})
	}
	return t
}

// TotalsFromCampaign uses the campaign's delivery counters with revenue
// supplied separately, usually from its synced data sources.
func TotalsFromCampaign(c *models.Campaign, revenue float64) Totals {
	return Totals{
		Impressions: c.Impressions,
		Clicks:      c.Clicks,
		Conversions: c.Conversions,
		Spend:       c.Spend,
		Revenue:     revenue,
	}
}

// Derived holds ratio metrics. A nil field means the denominator was zero.
type Derived struct {
	ROI             *float64 `json:"roi"`
	ROAS            *float64 `json:"roas"`
	ConversionValue *float64 `json:"conversion_value"`
	CTR             *float64 `json:"ctr"`
	CPC             *float64 `json:"cpc"`
	CPA             *float64 `json:"cpa"`
	ConversionRate  *float64 `json:"conversion_rate"`
}

// Compute derives ratio metrics from totals. Percentages are 0-100.
func Compute(t Totals) Derived {
	impressions := float64(t.Impressions)
	clicks := float64(t.Clicks)
	conversions := float64(t.Conversions)

	return Derived{
		ROI:             ratio((t.Revenue-t.Spend)*100, t.Spend),
		ROAS:            ratio(t.Revenue, t.Spend),
		ConversionValue: ratio(t.Revenue, conversions),
		CTR:             ratio(clicks*100, impressions),
		CPC:             ratio(t.Spend, clicks),
		CPA:             ratio(t.Spend, conversions),
		ConversionRate:  ratio(conversions*100, clicks),
	}
}

// Get returns the derived value for a benchmark metric key
func (d Derived) Get(metric string) *float64 {
	switch metric {
	case "roi":
		return d.ROI
	case "roas":
		return d.ROAS
	case "conversion_value":
		return d.ConversionValue
	case "ctr":
		return d.CTR
	case "cpc":
		return d.CPC
	case "cpa":
		return d.CPA
	case "conversion_rate":
		return d.ConversionRate
	}
	return nil
}

func ratio(numerator, denominator float64) *float64 {
	if denominator == 0 {
		return nil
	}
	v := numerator / denominator
	return &v
}
