package services

import (
	"fmt"

	"performance-core/internal/benchmarks"
	"performance-core/internal/config"
	"performance-core/internal/logger"
)

// benchmarkService implements BenchmarkService
type benchmarkService struct {
	logger  *logger.Logger
	catalog *benchmarks.Catalog
}

// NewBenchmarkService loads the benchmark catalog, merging the configured
// override file when one is set
func NewBenchmarkService(cfg *config.Config, logger *logger.Logger) (BenchmarkService, error) {
	catalog, err := benchmarks.LoadCatalog(cfg.Benchmarks.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmarks: %w", err)
	}
	if cfg.Benchmarks.CatalogPath != "" {
		logger.WithField("path", cfg.Benchmarks.CatalogPath).Info("Loaded benchmark catalog override")
	}
	return &benchmarkService{logger: logger, catalog: catalog}, nil
}

// Industries lists the known industries
func (s *benchmarkService) Industries() []string {
	return s.catalog.Industries()
}

// IndustryTable returns every supported metric for an industry
func (s *benchmarkService) IndustryTable(industry string) map[string]benchmarks.Entry {
	return s.catalog.Table(industry)
}

// Lookup resolves one benchmark and records where it came from
func (s *benchmarkService) Lookup(industry, metric string) (*benchmarks.Entry, benchmarks.Source) {
	entry, source := s.catalog.Lookup(industry, metric)
	benchmarkLookups.WithLabelValues(string(source)).Inc()
	if entry == nil {
		s.logger.WithField("industry", industry).
			WithField("metric", metric).
			Debug("No benchmark available")
	}
	return entry, source
}
