package verification

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/config"
	"github.com/leetguard/leetguard-server/internal/user"
)

func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(config *config.AppConfig, log *zap.Logger, users user.Repository, notifier Notifier) *Workflow {
					return NewWorkflow(&config.Verification, log, users, notifier)
				},
			),
		),
	)
}
