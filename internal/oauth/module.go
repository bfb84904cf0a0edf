package oauth

import (
	"go.uber.org/fx"

	"github.com/leetguard/leetguard-server/internal/config"
)

func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			func(config *config.AppConfig) *Registry {
				return NewDefaultRegistry(&config.OAuth)
			},
		),
	)
}
