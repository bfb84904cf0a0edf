package notify

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/config"
	"github.com/leetguard/leetguard-server/internal/verification"
)

const (
	TransportResend = "resend"
	TransportKafka  = "kafka"
	TransportLog    = "log"
)

// NewTransport picks the outbound transport named by the mail config.
func NewTransport(cfg *config.MailConfig, log *zap.Logger) (Transport, error) {
	switch cfg.Transport {
	case TransportResend:
		return NewResendTransport(cfg.ResendAPIKey, cfg.From)
	case TransportKafka:
		return NewKafkaTransport(cfg.Kafka), nil
	case TransportLog:
		return NewLogTransport(log), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}

func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			func(lc fx.Lifecycle, config *config.AppConfig, log *zap.Logger) (Transport, error) {
				transport, err := NewTransport(&config.Mail, log)
				if err != nil {
					return nil, err
				}
				if k, ok := transport.(*KafkaTransport); ok {
					lc.Append(fx.Hook{
						OnStop: func(context.Context) error { return k.Close() },
					})
				}
				return transport, nil
			},
			func(transport Transport, config *config.AppConfig, log *zap.Logger) *Gateway {
				return NewGateway(
					transport,
					log,
					config.Mail.FrontendURL,
					config.Verification.CodeTTL,
					config.Auth.ResetTokenDuration,
				)
			},
			fx.Annotate(
				func(g *Gateway) *Gateway { return g },
				fx.As(new(verification.Notifier)),
			),
		),
	)
}
