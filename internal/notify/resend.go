package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

var ErrNoAPIKey = errors.New("resend api key not configured")

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendTransport delivers messages through the Resend API.
type ResendTransport struct {
	emails emailSender
	from   string
}

func NewResendTransport(apiKey, from string) (*ResendTransport, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client := resend.NewClient(apiKey)
	return &ResendTransport{emails: client.Emails, from: from}, nil
}

func (t *ResendTransport) Deliver(ctx context.Context, msg Message) error {
	sent, err := t.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    t.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	if sent == nil || sent.Id == "" {
		return errors.New("resend: empty response")
	}
	return nil
}
