package goal

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/activity"
	"github.com/leetguard/leetguard-server/internal/user"
)

func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(log *zap.Logger, users user.Repository) *Service {
					return NewService(log, users)
				},
			),
			fx.Annotate(
				func(svc *Service) activity.ProgressRecorder {
					return svc
				},
			),
			fx.Annotate(
				func(svc *Service, log *zap.Logger) *Handler {
					return NewHandler(svc, log)
				},
			),
		),
	)
}
