package migration

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/config"
)

type action int

const (
	actionNone action = iota
	actionUp
	// actionNewerSchema means the database was migrated by a newer release.
	actionNewerSchema
)

func plan(current, latest int64) action {
	switch {
	case current < latest:
		return actionUp
	case current > latest:
		return actionNewerSchema
	default:
		return actionNone
	}
}

// Module migrates the database up on start when database.auto_migrate is
// set. It never rolls back.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(config *config.AppConfig) (*Migrator, error) {
					return NewMigrator(&config.Database)
				},
			),
		),
		fx.Invoke(registerHooks),
	)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	config *config.AppConfig,
	migrator *Migrator,
	logger *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !config.Database.AutoMigrate {
				logger.Info("Automatic migration disabled")
				return nil
			}
			return migrate(migrator, logger)
		},
		OnStop: func(ctx context.Context) error {
			return migrator.Close()
		},
	})
}

func migrate(migrator *Migrator, logger *zap.Logger) error {
	current, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	latest, err := migrator.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest migration version: %w", err)
	}

	switch plan(current, latest) {
	case actionUp:
		logger.Info("Upgrading database schema",
			zap.Int64("from_version", current),
			zap.Int64("to_version", latest))
		return migrator.Up()
	case actionNewerSchema:
		// Migrations are additive, so an older release keeps working.
		logger.Warn("Database schema is newer than this release, leaving it as is",
			zap.Int64("current_version", current),
			zap.Int64("latest_version", latest))
	default:
		logger.Info("Database schema is up to date", zap.Int64("version", current))
	}
	return nil
}
