package benchmarks

import (
	"math"
	"sort"
)

type metricRange struct {
	unit     string
	generate func(u float64) float64
}

func linear(lo, span float64, decimals int) func(float64) float64 {
	return func(u float64) float64 {
		return roundTo(lo+u*span, decimals)
	}
}

// floored rounds to an integer first and then floors to a multiple of step
func floored(lo, span, step float64) func(float64) float64 {
	return func(u float64) float64 {
		return math.Floor(roundTo(lo+u*span, 0)/step) * step
	}
}

// roundTo rounds half up to the given number of decimals
func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Floor(v*scale+0.5) / scale
}

var metricRanges = map[string]metricRange{
	"roi":                  {unit: "%", generate: linear(80, 170, 1)},
	"roas":                 {unit: "x", generate: linear(2, 6, 2)},
	"ctr":                  {unit: "%", generate: linear(0.5, 4.5, 2)},
	"cpc":                  {unit: "$", generate: linear(0.5, 5.5, 2)},
	"cpm":                  {unit: "$", generate: linear(5, 25, 2)},
	"cpa":                  {unit: "$", generate: linear(20, 180, 2)},
	"conversion_rate":      {unit: "%", generate: linear(1, 9, 2)},
	"bounce_rate":          {unit: "%", generate: linear(30, 40, 1)},
	"avg_session_duration": {unit: "s", generate: linear(60, 240, 0)},
	"sessions":             {unit: "", generate: floored(10000, 90000, 100)},
	"users":                {unit: "", generate: floored(50000, 250000, 1000)},
	"pageviews":            {unit: "", generate: floored(100000, 900000, 1000)},
	"revenue":              {unit: "$", generate: linear(10000, 490000, 2)},
}

// Metrics lists every metric key a benchmark can be produced for
func Metrics() []string {
	keys := make([]string, 0, len(metricRanges))
	for k := range metricRanges {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Supported reports whether metric has a generator range
func Supported(metric string) bool {
	_, ok := metricRanges[metric]
	return ok
}

func generate(industry, metric string) *Entry {
	r, ok := metricRanges[metric]
	if !ok {
		return nil
	}
	u := unitInterval(industry + "::" + metric)
	return &Entry{Value: r.generate(u), Unit: r.unit}
}
