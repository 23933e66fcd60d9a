package benchmarks

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// Entry is one industry benchmark value
type Entry struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit" yaml:"unit"`
}

// Source tells where a lookup result came from
type Source string

const (
	SourceCurated     Source = "curated"
	SourceGenerated   Source = "generated"
	SourceUnsupported Source = "unsupported"
)

var defaultCurated = map[string]map[string]Entry{
	"saas": {
		"roi":             {Value: 180, Unit: "%"},
		"roas":            {Value: 4.2, Unit: "x"},
		"ctr":             {Value: 2.41, Unit: "%"},
		"cpc":             {Value: 3.8, Unit: "$"},
		"cpa":             {Value: 145, Unit: "$"},
		"conversion_rate": {Value: 3.1, Unit: "%"},
		"bounce_rate":     {Value: 52, Unit: "%"},
	},
	"ecommerce": {
		"roi":             {Value: 210, Unit: "%"},
		"roas":            {Value: 4, Unit: "x"},
		"ctr":             {Value: 1.91, Unit: "%"},
		"cpc":             {Value: 1.16, Unit: "$"},
		"cpa":             {Value: 45.27, Unit: "$"},
		"conversion_rate": {Value: 2.81, Unit: "%"},
		"bounce_rate":     {Value: 47, Unit: "%"},
	},
	"healthcare": {
		"roi":             {Value: 150, Unit: "%"},
		"ctr":             {Value: 3.27, Unit: "%"},
		"cpc":             {Value: 2.62, Unit: "$"},
		"cpa":             {Value: 78.09, Unit: "$"},
		"conversion_rate": {Value: 3.36, Unit: "%"},
	},
	"finance": {
		"roi":             {Value: 160, Unit: "%"},
		"ctr":             {Value: 2.91, Unit: "%"},
		"cpc":             {Value: 3.44, Unit: "$"},
		"cpa":             {Value: 81.93, Unit: "$"},
		"conversion_rate": {Value: 5.1, Unit: "%"},
	},
	"education": {
		"roi":             {Value: 130, Unit: "%"},
		"ctr":             {Value: 3.78, Unit: "%"},
		"cpc":             {Value: 2.4, Unit: "$"},
		"cpa":             {Value: 72.7, Unit: "$"},
		"conversion_rate": {Value: 3.39, Unit: "%"},
	},
}

var listedIndustries = []string{
	"b2b", "education", "ecommerce", "finance", "healthcare",
	"real_estate", "retail", "saas", "technology", "travel",
}

// Catalog resolves benchmark values from a curated table with a
// deterministic generated fallback. It is read-only once built.
type Catalog struct {
	curated map[string]map[string]Entry
}

type catalogFile struct {
	Industries map[string]map[string]Entry `yaml:"industries"`
}

// NewCatalog returns a catalog holding the built-in curated table
func NewCatalog() *Catalog {
	curated := make(map[string]map[string]Entry, len(defaultCurated))
	for industry, metrics := range defaultCurated {
		curated[industry] = make(map[string]Entry, len(metrics))
		for metric, entry := range metrics {
			curated[industry][metric] = entry
		}
	}
	return &Catalog{curated: curated}
}

// LoadCatalog builds a catalog from the built-in table merged with the
// entries of a YAML file. An empty path returns the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	c := NewCatalog()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmark catalog: %w", err)
	}
	if err := c.Merge(data); err != nil {
		return nil, err
	}
	return c, nil
}

// ReservedIndustry is the listing path segment; no industry may use it
const ReservedIndustry = "industries"

// Merge overlays curated entries from YAML onto the catalog
func (c *Catalog) Merge(data []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse benchmark catalog: %w", err)
	}

	for industry := range file.Industries {
		switch foldIndustry(industry) {
		case "":
			return fmt.Errorf("benchmark catalog has an empty industry key")
		case ReservedIndustry:
			return fmt.Errorf("benchmark catalog industry key %q is reserved", industry)
		}
	}

	for industry, metrics := range file.Industries {
		key := foldIndustry(industry)
		if c.curated[key] == nil {
			c.curated[key] = make(map[string]Entry, len(metrics))
		}
		for metric, entry := range metrics {
			c.curated[key][metric] = entry
		}
	}
	return nil
}

// Lookup returns the benchmark for (industry, metric) and where it came
// from. Unsupported metrics return nil with SourceUnsupported.
func (c *Catalog) Lookup(industry, metric string) (*Entry, Source) {
	key := foldIndustry(industry)
	if entry, ok := c.curated[key][metric]; ok {
		return &Entry{Value: entry.Value, Unit: entry.Unit}, SourceCurated
	}
	if entry := generate(key, metric); entry != nil {
		return entry, SourceGenerated
	}
	return nil, SourceUnsupported
}

// Table returns every supported metric for an industry
func (c *Catalog) Table(industry string) map[string]Entry {
	table := make(map[string]Entry, len(metricRanges))
	for _, metric := range Metrics() {
		if entry, _ := c.Lookup(industry, metric); entry != nil {
			table[metric] = *entry
		}
	}
	for metric, entry := range c.curated[foldIndustry(industry)] {
		table[metric] = entry
	}
	return table
}

// Industries lists the known industry keys in sorted order
func (c *Catalog) Industries() []string {
	seen := make(map[string]struct{}, len(listedIndustries)+len(c.curated))
	for _, industry := range listedIndustries {
		seen[industry] = struct{}{}
	}
	for industry := range c.curated {
		seen[industry] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for industry := range seen {
		out = append(out, industry)
	}
	sort.Strings(out)
	return out
}

var defaultCatalog = NewCatalog()

// GetMockBenchmarkValue looks up a benchmark in the built-in catalog. The
// result for a given pair never changes; nil means no benchmark is available.
func GetMockBenchmarkValue(industry, metric string) *Entry {
	entry, _ := defaultCatalog.Lookup(industry, metric)
	return entry
}

func foldIndustry(industry string) string {
	return strings.ToLower(strings.TrimSpace(industry))
}
