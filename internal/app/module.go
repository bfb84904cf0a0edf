package app

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/activity"
	"github.com/leetguard/leetguard-server/internal/auth"
	"github.com/leetguard/leetguard-server/internal/blocklist"
	"github.com/leetguard/leetguard-server/internal/database"
	"github.com/leetguard/leetguard-server/internal/goal"
	"github.com/leetguard/leetguard-server/internal/migration"
	"github.com/leetguard/leetguard-server/internal/notify"
	"github.com/leetguard/leetguard-server/internal/oauth"
	"github.com/leetguard/leetguard-server/internal/server"
	"github.com/leetguard/leetguard-server/internal/token"
	"github.com/leetguard/leetguard-server/internal/user"
	"github.com/leetguard/leetguard-server/internal/verification"
)

// Module combines all application modules
func Module() fx.Option {
	return fx.Options(
		// Logger
		fx.Provide(newLogger),

		// Configuration
		fx.Provide(server.LoadConfig),

		// Storage
		migration.Module(),
		database.Module(),
		fx.Provide(
			fx.Annotate(
				func(m *database.Manager) *database.Manager { return m },
				fx.As(new(server.Pinger)),
			),
		),

		// Domain
		user.NewModule(),
		token.NewModule(),
		notify.NewModule(),
		verification.NewModule(),
		oauth.NewModule(),
		auth.NewModule(),
		blocklist.NewModule(),
		goal.NewModule(),
		activity.NewModule(),

		// Server
		fx.Provide(server.NewRouter),
		fx.Provide(server.NewServer),

		// Start the server
		fx.Invoke(registerHooks),
	)
}

func newLogger() (*zap.Logger, error) {
	env := os.Getenv("APP_ENV")
	return server.NewLogger(env)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	srv *server.Server,
	log *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server...")
			return srv.Stop(ctx)
		},
	})
}
