package services

import (
	"context"
	"fmt"
	"time"

	"performance-core/internal/analytics"
	"performance-core/internal/logger"
	"performance-core/internal/models"
	"performance-core/internal/repositories"
)

// performanceService implements PerformanceService
type performanceService struct {
	logger          *logger.Logger
	performanceRepo repositories.PerformanceRepository
	validationSvc   *models.ValidationService
	now             func() time.Time
}

// NewPerformanceService creates a new performance service
func NewPerformanceService(
	logger *logger.Logger,
	performanceRepo repositories.PerformanceRepository,
	validationSvc *models.ValidationService,
) PerformanceService {
	return &performanceService{
		logger:          logger,
		performanceRepo: performanceRepo,
		validationSvc:   validationSvc,
		now:             time.Now,
	}
}

// ListPerformance returns performance rows matching filter
func (s *performanceService) ListPerformance(ctx context.Context, filter models.PerformanceFilter) ([]*models.PerformanceData, error) {
	rows, err := s.performanceRepo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list performance data: %w", err)
	}
	return rows, nil
}

// RecordPerformance validates and stores one performance row
func (s *performanceService) RecordPerformance(ctx context.Context, row *models.PerformanceData) (*models.PerformanceData, error) {
	row.ID = ""
	if fields := s.validationSvc.FieldErrors(row); len(fields) > 0 {
		return nil, validationFailed("invalid performance data", fields)
	}

	if err := s.performanceRepo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to record performance data: %w", err)
	}

	s.logger.WithField("date", row.Date).
		WithField("platform", row.Platform).
		Info("Recorded performance data")
	return row, nil
}

// DashboardMetrics builds the KPI tiles for a period such as "30d"
func (s *performanceService) DashboardMetrics(ctx context.Context, period string) ([]models.DashboardMetric, error) {
	days, err := analytics.ParsePeriod(period)
	if err != nil {
		return nil, validationFailed("invalid period", map[string]string{"period": err.Error()})
	}
	if period == "" {
		period = analytics.DefaultPeriod
	}

	current, previous := analytics.PeriodWindows(s.now(), days)

	currentRows, err := s.performanceRepo.Find(ctx, models.PerformanceFilter{From: current.From, To: current.To})
	if err != nil {
		return nil, fmt.Errorf("failed to load current period: %w", err)
	}
	previousRows, err := s.performanceRepo.Find(ctx, models.PerformanceFilter{From: previous.From, To: previous.To})
	if err != nil {
		return nil, fmt.Errorf("failed to load previous period: %w", err)
	}

	return analytics.DashboardKPIs(totalsOf(currentRows), totalsOf(previousRows), period), nil
}

func totalsOf(rows []*models.PerformanceData) analytics.Totals {
	var t analytics.Totals
	for _, r := range rows {
		t = t.Add(analytics.TotalsFromPerformance([]models.PerformanceData{*r}))
	}
	return t
}
