package services

import (
	"context"
	"fmt"

	"performance-core/internal/analytics"
	"performance-core/internal/logger"
	"performance-core/internal/models"
	"performance-core/internal/repositories"
)

// campaignService implements CampaignService
type campaignService struct {
	logger         *logger.Logger
	campaignRepo   repositories.CampaignRepository
	dataSourceRepo repositories.DataSourceRepository
	benchmarks     BenchmarkService
	validationSvc  *models.ValidationService
}

// NewCampaignService creates a new campaign service
func NewCampaignService(
	logger *logger.Logger,
	campaignRepo repositories.CampaignRepository,
	dataSourceRepo repositories.DataSourceRepository,
	benchmarks BenchmarkService,
	validationSvc *models.ValidationService,
) CampaignService {
	return &campaignService{
		logger:         logger,
		campaignRepo:   campaignRepo,
		dataSourceRepo: dataSourceRepo,
		benchmarks:     benchmarks,
		validationSvc:  validationSvc,
	}
}

// ListCampaigns returns every campaign
func (s *campaignService) ListCampaigns(ctx context.Context) ([]*models.Campaign, error) {
	campaigns, err := s.campaignRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// CreateCampaign validates and stores a new campaign
func (s *campaignService) CreateCampaign(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	campaign.ID = ""
	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusActive
	}
	if fields := s.validationSvc.FieldErrors(campaign); len(fields) > 0 {
		return nil, validationFailed("invalid campaign", fields)
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.logger.WithCampaign(campaign.ID).
		WithField("name", campaign.Name).
		WithField("platform", campaign.Platform).
		Info("Created campaign")
	return campaign, nil
}

// GetCampaign returns one campaign with its data sources
func (s *campaignService) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "campaign")
	}
	return campaign, nil
}

// UpdateCampaign applies a partial update
func (s *campaignService) UpdateCampaign(ctx context.Context, id string, update *models.CampaignUpdate) (*models.Campaign, error) {
	if fields := s.validationSvc.FieldErrors(update); len(fields) > 0 {
		return nil, validationFailed("invalid campaign update", fields)
	}

	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(campaign)
	if fields := s.validationSvc.FieldErrors(campaign); len(fields) > 0 {
		return nil, validationFailed("invalid campaign", fields)
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	s.logger.WithCampaign(id).Info("Updated campaign")
	return campaign, nil
}

// DeleteCampaign removes a campaign
func (s *campaignService) DeleteCampaign(ctx context.Context, id string) error {
	if _, err := s.GetCampaign(ctx, id); err != nil {
		return err
	}
	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	s.logger.WithCampaign(id).Info("Deleted campaign")
	return nil
}

// GetCampaignMetrics derives ROI, ROAS and friends from the campaign counters
// and the revenue last synced from its data sources.
func (s *campaignService) GetCampaignMetrics(ctx context.Context, id string) (*CampaignMetrics, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	revenue, err := s.dataSourceRepo.SumRevenueByCampaign(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to sum campaign revenue: %w", err)
	}

	totals := analytics.TotalsFromCampaign(campaign, revenue)
	derived := analytics.Compute(totals)

	return &CampaignMetrics{
		CampaignID: campaign.ID,
		Industry:   campaign.Industry,
		Totals:     totals,
		Derived:    derived,
		Benchmarks: analytics.Compare(derived, s.benchmarks, campaign.Industry),
	}, nil
}
