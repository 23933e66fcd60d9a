package analytics

import (
	"performance-core/internal/benchmarks"
)

// ComparedMetrics are the derived metrics that have industry benchmarks
var ComparedMetrics = []string{"roi", "roas", "ctr", "cpc", "cpa", "conversion_rate"}

// BenchmarkLookup resolves an industry benchmark
type BenchmarkLookup interface {
	Lookup(industry, metric string) (*benchmarks.Entry, benchmarks.Source)
}

// Comparison puts an actual metric next to its industry benchmark
type Comparison struct {
	Metric       string            `json:"metric"`
	Actual       *float64          `json:"actual"`
	Benchmark    *benchmarks.Entry `json:"benchmark"`
	DeltaPercent *float64          `json:"delta_percent"`
}

// Compare lines up derived metrics against the benchmarks for an industry.
// The delta is relative to the benchmark and absent when either side is.
func Compare(derived Derived, lookup BenchmarkLookup, industry string) []Comparison {
	out := make([]Comparison, 0, len(ComparedMetrics))
	for _, metric := range ComparedMetrics {
		c := Comparison{Metric: metric, Actual: derived.Get(metric)}
		if industry != "" {
			c.Benchmark, _ = lookup.Lookup(industry, metric)
		}
		if c.Actual != nil && c.Benchmark != nil {
			c.DeltaPercent = ratio((*c.Actual-c.Benchmark.Value)*100, c.Benchmark.Value)
		}
		out = append(out, c)
	}
	return out
}
