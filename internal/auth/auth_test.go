package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/leetguard/leetguard-server/internal/config"
	"github.com/leetguard/leetguard-server/internal/oauth"
	"github.com/leetguard/leetguard-server/internal/token"
	"github.com/leetguard/leetguard-server/internal/user"
	"github.com/leetguard/leetguard-server/internal/verification"
)

func newTestLogger(t *testing.T) *zap.Logger {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	return logger
}

func newTestConfig() *config.AppConfig {
	return &config.AppConfig{
		Auth: config.AuthConfig{
			AccessSecret:         "test-access-secret",
			RefreshSecret:        "test-refresh-secret",
			AccessTokenDuration:  30 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
			ResetTokenDuration:   time.Hour,
		},
		Verification: config.VerificationConfig{
			CodeTTL: 10 * time.Minute,
		},
	}
}

// fakeNotifier stands in for the notification gateway.
type fakeNotifier struct {
	mu        sync.Mutex
	failCodes bool
	codes     map[string]string
	resets    map[string]string
	welcomed  []string
	verifyURL string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		codes:     make(map[string]string),
		resets:    make(map[string]string),
		verifyURL: "https://leetguard.test/verify-email",
	}
}

func (n *fakeNotifier) SendVerificationCode(_ context.Context, to, code string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failCodes {
		return false
	}
	n.codes[to] = code
	return true
}

func (n *fakeNotifier) SendWelcome(_ context.Context, to string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomed = append(n.welcomed, to)
	return true
}

func (n *fakeNotifier) SendPasswordReset(_ context.Context, to, token string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets[to] = token
	return true
}

func (n *fakeNotifier) VerificationURL() string { return n.verifyURL }

func (n *fakeNotifier) codeFor(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

type fakeProvider struct {
	name    string
	profile *oauth.Profile
	err     error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Authenticate(_ context.Context, code, _ string) (*oauth.Profile, error) {
	if p.err != nil {
		return nil, p.err
	}
	if code != "good-code" {
		return nil, &oauth.Error{Provider: "Google", Err: oauth.ErrTokenExchange}
	}
	return p.profile, nil
}

type testEnv struct {
	service  *Service
	handler  *Handler
	users    user.Repository
	tokens   *token.Service
	notifier *fakeNotifier
	google   *fakeProvider
	github   *fakeProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := newTestConfig()
	log := newTestLogger(t)
	users := user.NewMockRepository()
	tokens := token.NewService(&cfg.Auth)
	notifier := newFakeNotifier()
	verifier := verification.NewWorkflow(&cfg.Verification, log, users, notifier)

	google := &fakeProvider{name: "google", profile: &oauth.Profile{
		ID: "g-1", Email: "oauth@example.com", Name: "Ada Lovelace", Picture: "https://img.test/ada.png",
	}}
	github := &fakeProvider{name: "github", profile: &oauth.Profile{
		ID: "4242", Email: "octo@example.com", Name: "octo",
	}}

	svc := newServiceWithCost(log, users, tokens, verifier, notifier, oauth.NewRegistry(google, github), bcrypt.MinCost)
	return &testEnv{
		service:  svc,
		handler:  NewHandler(svc, verifier, log),
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		google:   google,
		github:   github,
	}
}

// verifiedUser signs up email and consumes its code.
func (e *testEnv) verifiedUser(t *testing.T, email, password string) *user.User {
	t.Helper()
	ctx := context.Background()

	_, err := e.service.Signup(ctx, email, password)
	require.NoError(t, err)

	u, err := e.users.GetByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, u.VerificationCode)

	u.IsVerified = true
	u.VerificationCode = nil
	u.VerificationExpiresAt = nil
	require.NoError(t, e.users.Update(ctx, u))
	return u
}
