package container

import (
	"performance-core/internal/config"
	"performance-core/internal/database"
	"performance-core/internal/handlers"
	"performance-core/internal/logger"
	"performance-core/internal/middleware"
	"performance-core/internal/models"
	"performance-core/internal/platforms"
	"performance-core/internal/repositories"
	"performance-core/internal/server"
	"performance-core/internal/services"

	"go.uber.org/fx"
)

// Core provides configuration, logging and auth without touching storage
var Core = fx.Options(
	// Configuration
	fx.Provide(config.LoadConfig),

	// Logging
	fx.Provide(logger.NewLogger),

	// Middleware
	fx.Provide(middleware.NewAuthenticationMiddleware),
	fx.Provide(middleware.NewSecurityMiddleware),
)

// Module provides dependency injection configuration
var Module = fx.Options(
	Core,

	// Database
	fx.Provide(database.NewConnection),
	fx.Provide(database.NewMigrator),
	fx.Provide(database.NewSeeder),
	fx.Provide(database.NewRedisClient),

	// Platforms
	fx.Provide(platforms.NewRegistry),
	fx.Provide(platforms.NewFetchers),

	// Repositories
	fx.Provide(repositories.NewCampaignRepository),
	fx.Provide(repositories.NewIntegrationRepository),
	fx.Provide(repositories.NewDataSourceRepository),
	fx.Provide(repositories.NewFieldMappingRepository),
	fx.Provide(repositories.NewWebhookRowRepository),
	fx.Provide(repositories.NewPerformanceRepository),

	// Services
	fx.Provide(services.NewCacheService),
	fx.Provide(func(cs *services.CacheService) services.Cache {
		return cs
	}),
	fx.Provide(services.NewBenchmarkService),
	fx.Provide(services.NewCampaignService),
	fx.Provide(services.NewPerformanceService),
	fx.Provide(services.NewIntegrationService),
	fx.Provide(services.NewDataSourceService),
	fx.Provide(services.NewMappingService),

	// Handlers
	fx.Provide(handlers.NewCampaignHandler),
	fx.Provide(handlers.NewPerformanceHandler),
	fx.Provide(handlers.NewBenchmarkHandler),
	fx.Provide(handlers.NewIntegrationHandler),
	fx.Provide(handlers.NewDataSourceHandler),
	fx.Provide(handlers.NewHealthHandler),
	fx.Provide(func(
		campaigns *handlers.CampaignHandler,
		performance *handlers.PerformanceHandler,
		benchmarks *handlers.BenchmarkHandler,
		integrations *handlers.IntegrationHandler,
		dataSources *handlers.DataSourceHandler,
		health *handlers.HealthHandler,
	) server.Handlers {
		return server.Handlers{
			Campaigns:    campaigns,
			Performance:  performance,
			Benchmarks:   benchmarks,
			Integrations: integrations,
			DataSources:  dataSources,
			Health:       health,
		}
	}),

	// Server
	fx.Provide(server.NewServer),

	// Models (for validation and serialization)
	fx.Provide(models.NewValidationService),

	// Invoke migrations on startup
	fx.Invoke(func(migrator *database.Migrator) error {
		return migrator.Up()
	}),
)
