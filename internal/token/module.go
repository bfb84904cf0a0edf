package token

import (
	"go.uber.org/fx"

	"github.com/leetguard/leetguard-server/internal/config"
)

func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(config *config.AppConfig) *Service {
					return NewService(&config.Auth)
				},
			),
		),
	)
}
