package analytics

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"performance-core/internal/benchmarks"
	"performance-core/internal/models"
)

func TestCompute(t *testing.T) {
	d := Compute(Totals{Impressions: 10000, Clicks: 500, Conversions: 25, Spend: 1000, Revenue: 3000})

	require.NotNil(t, d.ROI)
	assert.InDelta(t, 200, *d.ROI, 1e-9)
	assert.InDelta(t, 3, *d.ROAS, 1e-9)
	assert.InDelta(t, 120, *d.ConversionValue, 1e-9)
	assert.InDelta(t, 5, *d.CTR, 1e-9)
	assert.InDelta(t, 2, *d.CPC, 1e-9)
	assert.InDelta(t, 40, *d.CPA, 1e-9)
	assert.InDelta(t, 5, *d.ConversionRate, 1e-9)
}

func TestCompute_ZeroDenominators(t *testing.T) {
	d := Compute(Totals{Revenue: 500})

	assert.Nil(t, d.ROI)
	assert.Nil(t, d.ROAS)
	assert.Nil(t, d.ConversionValue)
	assert.Nil(t, d.CTR)
	assert.Nil(t, d.CPC)
	assert.Nil(t, d.CPA)
	assert.Nil(t, d.ConversionRate)
}

func TestProperty_ROIAndROASAgree(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("roi equals (roas - 1) * 100 whenever spend is positive", prop.ForAll(
		func(spend, revenue float64) bool {
			d := Compute(Totals{Spend: spend, Revenue: revenue})
			if d.ROI == nil || d.ROAS == nil {
				return false
			}
			diff := *d.ROI - (*d.ROAS-1)*100
			return diff < 1e-6 && diff > -1e-6
		},
		gen.Float64Range(0.01, 1e6),
		gen.Float64Range(0, 1e6),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestTotalsFromPerformance(t *testing.T) {
	rows := []models.PerformanceData{
		{Date: "2024-01-01", Impressions: 15000, Clicks: 750, Conversions: 45, Spend: 1200, Revenue: 3600},
		{Date: "2024-01-02", Impressions: 18000, Clicks: 900, Conversions: 54, Spend: 1440, Revenue: 4320},
	}

	totals := TotalsFromPerformance(rows)
	assert.Equal(t, Totals{Impressions: 33000, Clicks: 1650, Conversions: 99, Spend: 2640, Revenue: 7920}, totals)
}

func TestCompare(t *testing.T) {
	derived := Compute(Totals{Impressions: 1000, Clicks: 10, Spend: 100, Revenue: 360})

	comparisons := Compare(derived, benchmarks.NewCatalog(), "SaaS")
	require.Len(t, comparisons, len(ComparedMetrics))

	roi := comparisons[0]
	assert.Equal(t, "roi", roi.Metric)
	require.NotNil(t, roi.Benchmark)
	assert.Equal(t, 180.0, roi.Benchmark.Value)
	require.NotNil(t, roi.DeltaPercent)
	assert.InDelta(t, 44.444, *roi.DeltaPercent, 1e-3)

	cpa := comparisons[4]
	assert.Equal(t, "cpa", cpa.Metric)
	assert.Nil(t, cpa.Actual)
	assert.NotNil(t, cpa.Benchmark)
	assert.Nil(t, cpa.DeltaPercent)
}

func TestCompare_NoIndustry(t *testing.T) {
	comparisons := Compare(Compute(Totals{Spend: 1, Revenue: 2}), benchmarks.NewCatalog(), "")
	for _, c := range comparisons {
		assert.Nil(t, c.Benchmark)
		assert.Nil(t, c.DeltaPercent)
	}
}

func TestParsePeriod(t *testing.T) {
	days, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	days, err = ParsePeriod("7d")
	require.NoError(t, err)
	assert.Equal(t, 7, days)

	for _, bad := range []string{"7", "0d", "-3d", "xd", "400d"} {
		_, err := ParsePeriod(bad)
		assert.Error(t, err, bad)
	}
}

func TestPeriodWindows(t *testing.T) {
	now := time.Date(2024, 1, 31, 15, 0, 0, 0, time.UTC)

	current, previous := PeriodWindows(now, 30)
	assert.Equal(t, Window{From: "2024-01-02", To: "2024-01-31"}, current)
	assert.Equal(t, Window{From: "2023-12-03", To: "2024-01-01"}, previous)
}

func TestDashboardKPIs(t *testing.T) {
	current := Totals{Impressions: 324567, Clicks: 18923, Conversions: 800, Spend: 44280.82, Revenue: 120000}
	previous := Totals{Impressions: 288504, Clicks: 17473, Conversions: 800, Spend: 40000, Revenue: 100000}

	kpis := DashboardKPIs(current, previous, "30d")
	require.Len(t, kpis, 6)

	assert.Equal(t, models.DashboardMetric{Name: "Total Impressions", Value: "324,567", Change: "+12.5%", Period: "30d"}, kpis[0])
	assert.Equal(t, "18,923", kpis[1].Value)
	assert.Equal(t, "+8.3%", kpis[1].Change)
	assert.Equal(t, "4.2%", kpis[2].Value)
	assert.Equal(t, "-7.7%", kpis[2].Change)
	assert.Equal(t, "$2.34", kpis[3].Value)
	assert.Equal(t, "$120,000.00", kpis[4].Value)
	assert.Equal(t, "+20.0%", kpis[4].Change)
}

func TestDashboardKPIs_NoPreviousPeriod(t *testing.T) {
	kpis := DashboardKPIs(Totals{Impressions: 10}, Totals{}, "7d")

	assert.Equal(t, "n/a", kpis[0].Change)
	assert.Equal(t, "n/a", kpis[2].Value)
	assert.Equal(t, "n/a", kpis[3].Value)
}
