package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"performance-core/internal/config"
	"performance-core/internal/logger"
	"performance-core/internal/models"
	"performance-core/internal/platforms"
	"performance-core/internal/repositories"
)

type oauthState struct {
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

// integrationService implements IntegrationService
type integrationService struct {
	logger          *logger.Logger
	config          *config.Config
	integrationRepo repositories.IntegrationRepository
	registry        *platforms.Registry
	cache           Cache
	validationSvc   *models.ValidationService
}

// NewIntegrationService creates a new integration service
func NewIntegrationService(
	logger *logger.Logger,
	cfg *config.Config,
	integrationRepo repositories.IntegrationRepository,
	registry *platforms.Registry,
	cache Cache,
	validationSvc *models.ValidationService,
) IntegrationService {
	return &integrationService{
		logger:          logger,
		config:          cfg,
		integrationRepo: integrationRepo,
		registry:        registry,
		cache:           cache,
		validationSvc:   validationSvc,
	}
}

// ListIntegrations returns all integrations with secrets masked
func (s *integrationService) ListIntegrations(ctx context.Context) ([]models.Integration, error) {
	integrations, err := s.integrationRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	out := make([]models.Integration, 0, len(integrations))
	for _, i := range integrations {
		out = append(out, i.Redacted())
	}
	return out, nil
}

// CreateIntegration stores an API-key style integration
func (s *integrationService) CreateIntegration(ctx context.Context, integration *models.Integration) (*models.Integration, error) {
	integration.ID = ""
	if integration.Status == "" {
		integration.Status = models.IntegrationStatusDisconnected
	}
	if fields := s.validationSvc.FieldErrors(integration); len(fields) > 0 {
		return nil, validationFailed("invalid integration", fields)
	}

	if err := s.integrationRepo.Create(ctx, integration); err != nil {
		return nil, fmt.Errorf("failed to create integration: %w", err)
	}

	s.logger.WithIntegration(integration.ID).
		WithField("platform", integration.Platform).
		Info("Created integration")
	redacted := integration.Redacted()
	return &redacted, nil
}

// UpdateIntegration applies a partial update
func (s *integrationService) UpdateIntegration(ctx context.Context, id string, update *models.IntegrationUpdate) (*models.Integration, error) {
	if fields := s.validationSvc.FieldErrors(update); len(fields) > 0 {
		return nil, validationFailed("invalid integration update", fields)
	}

	integration, err := s.integrationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "integration")
	}

	if update.Status != nil {
		integration.Status = *update.Status
	}
	if update.APIKey != nil {
		integration.APIKey = *update.APIKey
	}
	if update.AccountID != nil {
		integration.AccountID = *update.AccountID
	}

	if err := s.integrationRepo.Update(ctx, integration); err != nil {
		return nil, fmt.Errorf("failed to update integration: %w", err)
	}

	s.logger.WithIntegration(id).WithField("status", integration.Status).Info("Updated integration")
	redacted := integration.Redacted()
	return &redacted, nil
}

// DeleteIntegration removes an integration
func (s *integrationService) DeleteIntegration(ctx context.Context, id string) error {
	if _, err := s.integrationRepo.GetByID(ctx, id); err != nil {
		return lookupError(err, "integration")
	}
	if err := s.integrationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}
	s.logger.WithIntegration(id).Info("Deleted integration")
	return nil
}

// StartOAuth creates a single-use state and returns the platform consent URL
func (s *integrationService) StartOAuth(ctx context.Context, platform string) (*OAuthStart, error) {
	state := uuid.NewString()

	authURL, err := s.registry.AuthCodeURL(platform, state)
	if err != nil {
		if errors.Is(err, ErrUnsupportedPlatform) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	ttl := time.Duration(s.config.Cache.OAuthStateTTL) * time.Second
	if err := s.cache.Set(ctx, oauthStateKey(state), oauthState{Platform: platform, CreatedAt: time.Now().UTC()}, ttl); err != nil {
		return nil, fmt.Errorf("failed to store OAuth state: %w", err)
	}

	s.logger.WithField("platform", platform).Info("Started OAuth flow")
	return &OAuthStart{Platform: platform, AuthURL: authURL, State: state}, nil
}

// CompleteOAuth checks the state, exchanges the code and marks the
// platform integration connected
func (s *integrationService) CompleteOAuth(ctx context.Context, platform, state, code string) (*models.Integration, error) {
	integration, err := s.completeOAuth(ctx, platform, state, code)
	result := "success"
	if err != nil {
		result = "failure"
	}
	oauthCallbacks.WithLabelValues(platform, result).Inc()
	return integration, err
}

func (s *integrationService) completeOAuth(ctx context.Context, platform, state, code string) (*models.Integration, error) {
	if state == "" || code == "" {
		return nil, validationFailed("missing OAuth parameters", map[string]string{"state": "required", "code": "required"})
	}

	var stored oauthState
	if err := s.cache.GetDel(ctx, oauthStateKey(state), &stored); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("failed to read OAuth state: %w", err)
	}
	if stored.Platform != platform {
		return nil, fmt.Errorf("%w: state was issued for %s", ErrInvalidState, stored.Platform)
	}

	token, err := s.registry.Exchange(ctx, platform, code)
	if err != nil {
		s.logger.WithError(err).WithField("platform", platform).Error("OAuth code exchange failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	integration, err := s.integrationRepo.GetByPlatform(ctx, platform)
	isNew := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load integration: %w", err)
		}
		integration = &models.Integration{Platform: platform}
		isNew = true
	}

	platforms.ApplyToken(integration, token)
	integration.Status = models.IntegrationStatusConnected

	if isNew {
		err = s.integrationRepo.Create(ctx, integration)
	} else {
		err = s.integrationRepo.Update(ctx, integration)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save integration: %w", err)
	}

	s.logger.WithIntegration(integration.ID).WithField("platform", platform).Info("Connected integration")
	redacted := integration.Redacted()
	return &redacted, nil
}

// HTTPClient returns a client authorised with the integration's token.
// Refreshed tokens are written back to the integration.
func (s *integrationService) HTTPClient(ctx context.Context, integrationID string) (*http.Client, error) {
	integration, err := s.integrationRepo.GetByID(ctx, integrationID)
	if err != nil {
		return nil, lookupError(err, "integration")
	}
	if integration.Status != models.IntegrationStatusConnected || !integration.HasToken() {
		return nil, fmt.Errorf("%w: %s", ErrNotConnected, integration.Platform)
	}

	base, err := s.registry.TokenSource(ctx, integration.Platform, platforms.TokenFromIntegration(integration))
	if err != nil {
		return nil, err
	}

	ts := &persistingTokenSource{
		base:        base,
		integration: integration,
		save: func(i *models.Integration) error {
			return s.integrationRepo.Update(ctx, i)
		},
		logger: s.logger,
	}
	return s.registry.Client(ctx, ts), nil
}

// MarkSynced records a successful sync time
func (s *integrationService) MarkSynced(ctx context.Context, integrationID string, at time.Time) error {
	integration, err := s.integrationRepo.GetByID(ctx, integrationID)
	if err != nil {
		return lookupError(err, "integration")
	}
	integration.LastSync = &at
	return s.integrationRepo.Update(ctx, integration)
}

// MarkFailed flags an integration whose credentials were rejected
func (s *integrationService) MarkFailed(ctx context.Context, integrationID string) error {
	integration, err := s.integrationRepo.GetByID(ctx, integrationID)
	if err != nil {
		return lookupError(err, "integration")
	}
	integration.Status = models.IntegrationStatusError
	s.logger.WithIntegration(integrationID).Warn("Integration credentials rejected")
	return s.integrationRepo.Update(ctx, integration)
}

// persistingTokenSource saves tokens that changed after a refresh
type persistingTokenSource struct {
	base        oauth2.TokenSource
	integration *models.Integration
	save        func(*models.Integration) error
	logger      *logger.Logger
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	if platforms.ApplyToken(p.integration, token) {
		if err := p.save(p.integration); err != nil {
			p.logger.WithError(err).WithField("integration_id", p.integration.ID).Warn("Failed to persist refreshed token")
		}
	}
	return token, nil
}
