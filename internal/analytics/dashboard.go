package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"performance-core/internal/models"
)

const (
	DefaultPeriod = "30d"
	maxPeriodDays = 366
	dateLayout    = "2006-01-02"
)

// Window is an inclusive date range in YYYY-MM-DD form
type Window struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ParsePeriod reads a "<n>d" period. An empty period is DefaultPeriod.
func ParsePeriod(period string) (int, error) {
	if period == "" {
		period = DefaultPeriod
	}
	if !strings.HasSuffix(period, "d") {
		return 0, fmt.Errorf("period %q must look like 30d", period)
	}
	days, err := strconv.Atoi(strings.TrimSuffix(period, "d"))
	if err != nil || days < 1 || days > maxPeriodDays {
		return 0, fmt.Errorf("period %q must be between 1d and %dd", period, maxPeriodDays)
	}
	return days, nil
}

// PeriodWindows returns the current window ending on now and the previous
// window of the same length just before it.
func PeriodWindows(now time.Time, days int) (current, previous Window) {
	end := now.UTC()
	start := end.AddDate(0, 0, -(days - 1))
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(days - 1))

	current = Window{From: start.Format(dateLayout), To: end.Format(dateLayout)}
	previous = Window{From: prevStart.Format(dateLayout), To: prevEnd.Format(dateLayout)}
	return current, previous
}

// DashboardKPIs builds the headline KPI tiles for a period with their change
// against the previous period.
func DashboardKPIs(current, previous Totals, period string) []models.DashboardMetric {
	cur := Compute(current)
	prev := Compute(previous)

	impressions := float64(current.Impressions)
	clicks := float64(current.Clicks)
	prevImpressions := float64(previous.Impressions)
	prevClicks := float64(previous.Clicks)

	return []models.DashboardMetric{
		{
			Name:   "Total Impressions",
			Value:  humanize.Comma(current.Impressions),
			Change: change(&impressions, &prevImpressions),
			Period: period,
		},
		{
			Name:   "Total Clicks",
			Value:  humanize.Comma(current.Clicks),
			Change: change(&clicks, &prevClicks),
			Period: period,
		},
		{
			Name:   "Conversion Rate",
			Value:  percent(cur.ConversionRate),
			Change: change(cur.ConversionRate, prev.ConversionRate),
			Period: period,
		},
		{
			Name:   "Cost Per Click",
			Value:  money(cur.CPC),
			Change: change(cur.CPC, prev.CPC),
			Period: period,
		},
		{
			Name:   "Total Revenue",
			Value:  money(&current.Revenue),
			Change: change(&current.Revenue, &previous.Revenue),
			Period: period,
		},
		{
			Name:   "ROI",
			Value:  percent(cur.ROI),
			Change: change(cur.ROI, prev.ROI),
			Period: period,
		},
	}
}

// change is the signed relative change in percent, "n/a" without a base
func change(current, previous *float64) string {
	if current == nil || previous == nil || *previous == 0 {
		return "n/a"
	}
	delta := (*current - *previous) / absf(*previous) * 100
	sign := "+"
	if delta < 0 {
		sign = "-"
		delta = -delta
	}
	return sign + strconv.FormatFloat(delta, 'f', 1, 64) + "%"
}

func percent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64) + "%"
}

func money(v *float64) string {
	if v == nil {
		return "n/a"
	}
	if *v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -*v)
	}
	return "$" + humanize.FormatFloat("#,###.##", *v)
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
