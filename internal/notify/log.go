package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogTransport writes messages to the logger instead of sending them.
// Used in development and tests.
type LogTransport struct {
	log *zap.Logger
}

func NewLogTransport(log *zap.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Deliver(_ context.Context, msg Message) error {
	t.log.Info("Outgoing email",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
