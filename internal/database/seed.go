package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"performance-core/internal/logger"
	"performance-core/internal/models"
)

// Seeder inserts demo rows into an empty database
type Seeder struct {
	db     *Connection
	logger *logger.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(db *Connection, logger *logger.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// DemoCampaigns are the campaigns created on first start
func DemoCampaigns() []models.Campaign {
	return []models.Campaign{
		{Name: "Summer Sale Campaign", Type: "conversions", Platform: "Facebook", Industry: "ecommerce",
			Impressions: 15420, Clicks: 892, Spend: 456.78, Status: models.CampaignStatusActive},
		{Name: "Brand Awareness Push", Type: "awareness", Platform: "Google Ads", Industry: "saas",
			Impressions: 28900, Clicks: 1245, Spend: 789.50, Status: models.CampaignStatusActive},
		{Name: "Retargeting Campaign", Type: "conversions", Platform: "LinkedIn", Industry: "saas",
			Impressions: 8750, Clicks: 425, Spend: 234.25, Status: models.CampaignStatusPaused},
	}
}

// DemoPerformance are the daily performance rows created on first start
func DemoPerformance() []models.PerformanceData {
	return []models.PerformanceData{
		{Date: "2024-01-01", Impressions: 45000, Clicks: 2200, Conversions: 180, Spend: 1200, Revenue: 5400, Platform: "Facebook"},
		{Date: "2024-01-02", Impressions: 52000, Clicks: 2800, Conversions: 220, Spend: 1450, Revenue: 6200, Platform: "Google Ads"},
		{Date: "2024-01-03", Impressions: 48000, Clicks: 2500, Conversions: 195, Spend: 1300, Revenue: 5850, Platform: "LinkedIn"},
	}
}

// DemoIntegrations are the integrations created on first start
func DemoIntegrations(now time.Time) []models.Integration {
	return []models.Integration{
		{Platform: "Facebook", Status: models.IntegrationStatusConnected, AccountID: "fb_account_123", LastSync: &now},
		{Platform: "Google Ads", Status: models.IntegrationStatusConnected, AccountID: "ga_account_456", LastSync: &now},
		{Platform: "LinkedIn", Status: models.IntegrationStatusDisconnected},
		{Platform: "Twitter", Status: models.IntegrationStatusError},
	}
}

// SeedDemoData inserts the demo rows when no campaign exists yet
func (s *Seeder) SeedDemoData(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Campaign{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count campaigns: %w", err)
	}
	if count > 0 {
		s.logger.WithField("campaigns", count).Debug("Database already has data, skipping demo seed")
		return nil
	}

	campaigns := DemoCampaigns()
	performance := DemoPerformance()
	integrations := DemoIntegrations(time.Now().UTC())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&campaigns).Error; err != nil {
			return fmt.Errorf("failed to seed campaigns: %w", err)
		}
		if err := tx.Create(&performance).Error; err != nil {
			return fmt.Errorf("failed to seed performance data: %w", err)
		}
		if err := tx.Create(&integrations).Error; err != nil {
			return fmt.Errorf("failed to seed integrations: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithField("campaigns", len(campaigns)).
		WithField("performance_rows", len(performance)).
		WithField("integrations", len(integrations)).
		Info("Seeded demo data")
	return nil
}
