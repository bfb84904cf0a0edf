package auth

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/notify"
	"github.com/leetguard/leetguard-server/internal/oauth"
	"github.com/leetguard/leetguard-server/internal/token"
	"github.com/leetguard/leetguard-server/internal/user"
	"github.com/leetguard/leetguard-server/internal/verification"
)

// NewModule returns the auth module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			// Provide service
			fx.Annotate(
				func(
					log *zap.Logger,
					users user.Repository,
					tokens *token.Service,
					verifier *verification.Workflow,
					gateway *notify.Gateway,
					providers *oauth.Registry,
				) *Service {
					return NewService(log, users, tokens, verifier, gateway, providers)
				},
			),
			// Provide handler
			fx.Annotate(
				func(svc *Service, verifier *verification.Workflow, log *zap.Logger) *Handler {
					return NewHandler(svc, verifier, log)
				},
			),
			// Provide middleware
			fx.Annotate(
				func(svc *Service, log *zap.Logger) *AuthMiddleware {
					return NewAuthMiddleware(svc, log)
				},
			),
		),
	)
}
