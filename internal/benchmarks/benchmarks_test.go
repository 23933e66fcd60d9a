package benchmarks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	assert.Equal(t, uint32(0x811c9dc5), hash(""))
	assert.Equal(t, uint32(0xe40c292c), hash("a"))
	assert.Equal(t, uint32(0xbf9cf968), hash("foobar"))
	assert.Equal(t, uint32(0x6c0b6c44), hash("é"))
	// surrogate pairs hash as two code units
	assert.Equal(t, uint32(0xcb31c4b8), hash("😀"))
}

func TestGetMockBenchmarkValue_Curated(t *testing.T) {
	for i := 0; i < 3; i++ {
		entry := GetMockBenchmarkValue("saas", "roi")
		require.NotNil(t, entry)
		assert.Equal(t, Entry{Value: 180, Unit: "%"}, *entry)
	}

	entry := GetMockBenchmarkValue("  SaaS ", "roi")
	require.NotNil(t, entry)
	assert.Equal(t, 180.0, entry.Value)
}

func TestGetMockBenchmarkValue_Generated(t *testing.T) {
	entry := GetMockBenchmarkValue("unknown-industry", "roi")
	require.NotNil(t, entry)
	assert.Equal(t, 81.1, entry.Value)
	assert.Equal(t, "%", entry.Unit)

	users := GetMockBenchmarkValue("retail", "users")
	require.NotNil(t, users)
	assert.Equal(t, 144000.0, users.Value)
}

func TestGetMockBenchmarkValue_Unsupported(t *testing.T) {
	assert.Nil(t, GetMockBenchmarkValue("saas", "unsupported_metric"))
	assert.Nil(t, GetMockBenchmarkValue("unknown-industry", "ROI"))
}

func TestProperty_GeneratedValues(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("roi is stable and within [80, 250]", prop.ForAll(
		func(industry string) bool {
			first := generate(industry, "roi")
			second := generate(industry, "roi")
			return first != nil && *first == *second && first.Value >= 80 && first.Value <= 250
		},
		gen.AnyString(),
	))

	properties.Property("users are whole thousands within range", prop.ForAll(
		func(industry string) bool {
			entry := generate(industry, "users")
			return entry.Value >= 50000 && entry.Value <= 300000 && int64(entry.Value)%1000 == 0
		},
		gen.AlphaString(),
	))

	properties.Property("every supported metric yields a value for any industry", prop.ForAll(
		func(industry string) bool {
			for _, metric := range Metrics() {
				if GetMockBenchmarkValue(industry, metric) == nil {
					return false
				}
			}
			return true
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCatalog_Merge(t *testing.T) {
	catalog := NewCatalog()
	err := catalog.Merge([]byte(`
industries:
  SaaS:
    roi: {value: 200, unit: "%"}
  gaming:
    ctr: {value: 1.5, unit: "%"}
`))
	require.NoError(t, err)

	entry, source := catalog.Lookup("saas", "roi")
	assert.Equal(t, SourceCurated, source)
	assert.Equal(t, 200.0, entry.Value)

	entry, source = catalog.Lookup("gaming", "ctr")
	assert.Equal(t, SourceCurated, source)
	assert.Equal(t, 1.5, entry.Value)

	_, source = catalog.Lookup("gaming", "roi")
	assert.Equal(t, SourceGenerated, source)

	assert.Contains(t, catalog.Industries(), "gaming")

	// the package default is untouched
	assert.Equal(t, 180.0, GetMockBenchmarkValue("saas", "roi").Value)
}

func TestCatalog_MergeInvalid(t *testing.T) {
	assert.Error(t, NewCatalog().Merge([]byte("industries: [")))
	assert.Error(t, NewCatalog().Merge([]byte("industries:\n  \" \":\n    roi: {value: 1}\n")))
}

func TestCatalog_MergeRejectsReservedIndustry(t *testing.T) {
	catalog := NewCatalog()
	err := catalog.Merge([]byte("industries:\n  Industries:\n    roi: {value: 1, unit: \"%\"}\n  fintech:\n    roi: {value: 2, unit: \"%\"}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
	assert.NotContains(t, catalog.Industries(), ReservedIndustry)
	_, source := catalog.Lookup("fintech", "roi")
	assert.NotEqual(t, SourceCurated, source, "nothing is applied from a rejected catalog")
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, 180.0, catalog.Table("saas")["roi"].Value)

	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("industries:\n  saas:\n    roi: {value: 175, unit: \"%\"}\n"), 0o600))

	catalog, err = LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 175.0, catalog.Table("saas")["roi"].Value)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCatalog_Table(t *testing.T) {
	table := NewCatalog().Table("education")

	assert.Len(t, table, len(Metrics()))
	assert.Equal(t, Entry{Value: 130, Unit: "%"}, table["roi"])
	assert.Contains(t, table, "pageviews")
}

func TestCatalog_Industries(t *testing.T) {
	industries := NewCatalog().Industries()
	assert.Contains(t, industries, "saas")
	assert.IsIncreasing(t, industries)
}
