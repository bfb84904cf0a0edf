package main

import (
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/app"
	"github.com/leetguard/leetguard-server/internal/server"
)

func main() {
	if os.Getenv("APP_ENV") == "" {
		_ = os.Setenv("APP_ENV", server.EnvDevelopment)
	}

	fx.New(
		app.Module(),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{
				Logger: log.Named("fx"),
			}
		}),
	).Run()
}
