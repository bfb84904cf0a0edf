// Command mailer drains the mail topic and delivers each message through
// Resend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/notify"
	"github.com/leetguard/leetguard-server/internal/server"
)

func main() {
	if os.Getenv("APP_ENV") == "" {
		_ = os.Setenv("APP_ENV", server.EnvDevelopment)
	}

	log, err := server.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := server.LoadMailerConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	transport, err := notify.NewResendTransport(cfg.Mail.ResendAPIKey, cfg.Mail.From)
	if err != nil {
		log.Fatal("Failed to create resend transport", zap.Error(err))
	}

	consumer := notify.NewConsumer(cfg.Mail.Kafka, transport, log.Named("mailer"))
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Warn("Failed to close consumer", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Mailer started",
		zap.Strings("brokers", cfg.Mail.Kafka.Brokers),
		zap.String("topic", cfg.Mail.Kafka.Topic),
		zap.String("group_id", cfg.Mail.Kafka.GroupID))

	if err := consumer.Run(ctx); err != nil {
		log.Error("Mailer stopped", zap.Error(err))
		return
	}
	log.Info("Mailer stopped")
}
