package notify

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Message is a rendered email ready for a Transport.
type Message struct {
	Kind    Kind   `json:"kind"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// Gateway renders the LeetGuard templates and hands them to a Transport.
// Every send reports success as a bool; delivery errors are logged and never
// returned.
type Gateway struct {
	transport   Transport
	log         *zap.Logger
	frontendURL string
	codeTTL     time.Duration
	resetTTL    time.Duration
}

func NewGateway(transport Transport, log *zap.Logger, frontendURL string, codeTTL, resetTTL time.Duration) *Gateway {
	return &Gateway{
		transport:   transport,
		log:         log,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		codeTTL:     codeTTL,
		resetTTL:    resetTTL,
	}
}

func (g *Gateway) SendVerificationCode(ctx context.Context, to, code string) bool {
	return g.send(ctx, KindVerification, to, templateData{
		Code:          code,
		ExpiryMinutes: int(g.codeTTL.Minutes()),
	})
}

// SendPasswordReset mails a link to the frontend reset page carrying token.
func (g *Gateway) SendPasswordReset(ctx context.Context, to, token string) bool {
	return g.send(ctx, KindPasswordReset, to, templateData{
		ResetURL:    g.ResetURL(token),
		ExpiryHours: max(1, int(g.resetTTL.Hours())),
	})
}

func (g *Gateway) SendWelcome(ctx context.Context, to string) bool {
	return g.send(ctx, KindWelcome, to, templateData{Recipient: to})
}

func (g *Gateway) ResetURL(token string) string {
	return g.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

// VerificationURL is where unverified users are sent to enter their code.
func (g *Gateway) VerificationURL() string {
	return g.frontendURL + "/verify-email"
}

func (g *Gateway) send(ctx context.Context, kind Kind, to string, data templateData) bool {
	msg, err := render(kind, to, data)
	if err != nil {
		g.log.Error("Failed to render email", zap.String("kind", string(kind)), zap.Error(err))
		return false
	}

	if err := g.transport.Deliver(ctx, msg); err != nil {
		g.log.Error("Failed to send email",
			zap.String("kind", string(kind)),
			zap.String("to", to),
			zap.Error(err),
		)
		return false
	}

	g.log.Info("Email sent", zap.String("kind", string(kind)), zap.String("to", to))
	return true
}
