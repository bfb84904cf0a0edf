package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/config"
)

// Event is the queued form of a Message.
type Event struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Message
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaTransport publishes messages to a topic drained by the mailer.
// Deliver succeeds once the broker acknowledged the write.
type KafkaTransport struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaTransport(cfg config.KafkaConfig) *KafkaTransport {
	return &KafkaTransport{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			WriteTimeout:           10 * time.Second,
		},
		now: time.Now,
	}
}

func (t *KafkaTransport) Deliver(ctx context.Context, msg Message) error {
	event := Event{
		ID:        uuid.NewString(),
		CreatedAt: t.now().UTC(),
		Message:   msg,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode mail event: %w", err)
	}

	// Keyed by recipient so one user's mails stay ordered.
	err = t.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.To),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "kind", Value: []byte(msg.Kind)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish mail event: %w", err)
	}
	return nil
}

func (t *KafkaTransport) Close() error {
	return t.writer.Close()
}

const deliveryAttempts = 3

// Consumer drains the mail topic and delivers each event through a Transport.
type Consumer struct {
	reader    messageReader
	transport Transport
	log       *zap.Logger
	backoff   time.Duration
}

func NewConsumer(cfg config.KafkaConfig, transport Transport, log *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			GroupID:  cfg.GroupID,
			Topic:    cfg.Topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		transport: transport,
		log:       log,
		backoff:   time.Second,
	}
}

// Run blocks until ctx is cancelled. Every fetched event is committed, even
// when it could not be decoded or delivered after deliveryAttempts tries.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch mail event: %w", err)
		}

		if err := c.handle(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error("Failed to deliver queued email",
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			return fmt.Errorf("commit mail event: %w", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, m kafka.Message) error {
	var event Event
	if err := json.Unmarshal(m.Value, &event); err != nil {
		c.log.Warn("Dropping malformed mail event", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}

	var err error
	for attempt := 1; attempt <= deliveryAttempts; attempt++ {
		if err = c.transport.Deliver(ctx, event.Message); err == nil {
			break
		}
		if attempt == deliveryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
	c.log.Info("Queued email delivered",
		zap.String("event_id", event.ID),
		zap.String("kind", string(event.Kind)),
		zap.String("to", event.To),
	)
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
