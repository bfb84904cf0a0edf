package config

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDatabaseURL = errors.New("database url is required")
	ErrMissingSecret      = errors.New("access and refresh secrets are required")
	ErrSharedSecret       = errors.New("access and refresh secrets must differ")
	ErrMissingResendKey   = errors.New("resend api key is required")
	ErrMissingKafka       = errors.New("kafka brokers, topic and group id are required")
)

func (c *AppConfig) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" {
		return ErrMissingSecret
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return ErrSharedSecret
	}
	if c.Auth.AccessTokenDuration <= 0 || c.Auth.RefreshTokenDuration <= 0 {
		return fmt.Errorf("token lifetimes must be positive, got access=%s refresh=%s",
			c.Auth.AccessTokenDuration, c.Auth.RefreshTokenDuration)
	}

	switch c.Mail.Transport {
	case "resend":
		if c.Mail.ResendAPIKey == "" {
			return ErrMissingResendKey
		}
	case "kafka":
		if len(c.Mail.Kafka.Brokers) == 0 || c.Mail.Kafka.Topic == "" {
			return ErrMissingKafka
		}
	case "log":
	default:
		return fmt.Errorf("unknown mail transport %q", c.Mail.Transport)
	}

	return nil
}

// ValidateMailer checks only what the queue consumer needs: the topic to read
// and the Resend credentials to deliver with.
func (c *AppConfig) ValidateMailer() error {
	if c.Mail.ResendAPIKey == "" {
		return ErrMissingResendKey
	}
	k := c.Mail.Kafka
	if len(k.Brokers) == 0 || k.Topic == "" || k.GroupID == "" {
		return ErrMissingKafka
	}
	return nil
}
