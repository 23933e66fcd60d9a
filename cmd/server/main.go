package main

import (
	"context"
	"fmt"

	"performance-core/internal/config"
	"performance-core/internal/container"
	"performance-core/internal/database"
	"performance-core/internal/logger"
	"performance-core/internal/server"

	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		container.Module,
		fx.Invoke(func(
			lc fx.Lifecycle,
			cfg *config.Config,
			log *logger.Logger,
			srv *server.Server,
			seeder *database.Seeder,
			db *database.Connection,
		) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.WithField("port", cfg.Server.Port).Info("Starting PerformanceCore")

					if cfg.Seed.DemoData {
						if err := seeder.SeedDemoData(ctx); err != nil {
							return fmt.Errorf("failed to seed demo data: %w", err)
						}
					}

					// Start server in background
					go func() {
						if err := srv.Start(context.Background()); err != nil {
							log.WithError(err).Error("Server error")
						}
					}()

					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.Info("Shutting down PerformanceCore")
					if err := srv.Stop(ctx); err != nil {
						return err
					}
					return db.Close()
				},
			})
		}),
	)

	app.Run()
}
