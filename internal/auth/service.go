package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/leetguard/leetguard-server/internal/oauth"
	"github.com/leetguard/leetguard-server/internal/token"
	"github.com/leetguard/leetguard-server/internal/user"
	"github.com/leetguard/leetguard-server/internal/verification"
)

var (
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshPayload      = errors.New("invalid refresh token payload")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
)

const (
	msgSignupSent         = "Account created successfully! Please check your email for verification code."
	msgSignupNotSent      = "Account created successfully! However, we couldn't send the verification email. Please use the resend feature or contact support."
	msgPasswordAdded      = "Password added successfully! Please check your email for verification code."
	msgPasswordAddedNoMsg = "Password added successfully! However, we couldn't send the verification email. Please use the resend feature or contact support."
	msgLoginVerifySent    = "Please verify your email before logging in. A new verification code has been sent to your email."
	msgLoginVerifyNotSent = "Please verify your email before logging in. We couldn't send the verification email. Please use the resend feature."
)

// Mailer is the part of the notification gateway the auth flows use directly.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, token string) bool
	VerificationURL() string
}

type Providers interface {
	Get(name string) (oauth.Provider, error)
}

type Service struct {
	log       *zap.Logger
	users     user.Repository
	tokens    *token.Service
	verifier  *verification.Workflow
	mailer    Mailer
	providers Providers
	cost      int
	// Compared against when the user is unknown so that the response time
	// does not reveal which emails are registered.
	dummyHash []byte
}

func NewService(
	log *zap.Logger,
	users user.Repository,
	tokens *token.Service,
	verifier *verification.Workflow,
	mailer Mailer,
	providers Providers,
) *Service {
	return newServiceWithCost(log, users, tokens, verifier, mailer, providers, bcrypt.DefaultCost)
}

func newServiceWithCost(
	log *zap.Logger,
	users user.Repository,
	tokens *token.Service,
	verifier *verification.Workflow,
	mailer Mailer,
	providers Providers,
	cost int,
) *Service {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("dummy-password"), cost)
	return &Service{
		log:       log,
		users:     users,
		tokens:    tokens,
		verifier:  verifier,
		mailer:    mailer,
		providers: providers,
		cost:      cost,
		dummyHash: dummy,
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	return string(bytes), err
}

func (s *Service) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

type SignupResult struct {
	User      *user.User
	EmailSent bool
	Message   string
}

// Signup registers a password account. An existing account without a
// password gets this one attached and must verify the address again.
func (s *Service) Signup(ctx context.Context, email, password string) (*SignupResult, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.HasPassword() {
			return nil, ErrEmailRegistered
		}
		return s.attachPassword(ctx, existing, password)
	case !errors.Is(err, user.ErrUserNotFound):
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{Email: email, PasswordHash: &hash}
	if err := s.verifier.Stamp(u); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, ErrEmailRegistered
		}
		return nil, err
	}

	s.log.Info("User registered", zap.Uint("user_id", u.ID))

	sent := s.verifier.Deliver(ctx, u)
	msg := msgSignupSent
	if !sent {
		msg = msgSignupNotSent
	}
	return &SignupResult{User: u, EmailSent: sent, Message: msg}, nil
}

func (s *Service) attachPassword(ctx context.Context, u *user.User, password string) (*SignupResult, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = &hash

	sent, err := s.verifier.Issue(ctx, u)
	if err != nil {
		return nil, err
	}

	s.log.Info("Password attached to OAuth account", zap.Uint("user_id", u.ID))

	msg := msgPasswordAdded
	if !sent {
		msg = msgPasswordAddedNoMsg
	}
	return &SignupResult{User: u, EmailSent: sent, Message: msg}, nil
}

// LoginResult holds either a token pair or a pending verification notice.
type LoginResult struct {
	Tokens *token.Pair

	VerificationRequired bool
	Message              string
	EmailSent            bool
	VerificationURL      string
}

// Login checks credentials. Unverified users get a fresh code instead of
// tokens.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if !s.CheckPasswordHash(password, *u.PasswordHash) {
		s.log.Info("Login rejected", zap.Uint("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	if !u.IsVerified {
		sent, err := s.verifier.Issue(ctx, u)
		if err != nil {
			return nil, err
		}
		msg := msgLoginVerifySent
		if !sent {
			msg = msgLoginVerifyNotSent
		}
		return &LoginResult{
			VerificationRequired: true,
			Message:              msg,
			EmailSent:            sent,
			VerificationURL:      s.mailer.VerificationURL(),
		}, nil
	}

	pair, err := s.tokens.IssuePair(token.NewClaims(u.ID, u.Email))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Tokens: pair}, nil
}

// Refresh rotates a refresh token into a new pair. Old tokens stay valid until
// they expire.
func (s *Service) Refresh(refreshToken string) (*token.Pair, error) {
	pair, _, err := s.tokens.Refresh(refreshToken)
	if errors.Is(err, token.ErrMissingSubject) {
		return nil, ErrRefreshPayload
	}
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	return pair, nil
}

// Authenticate resolves an access token to its user.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*user.User, error) {
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// UpdateProfile sets the display name when one is given.
func (s *Service) UpdateProfile(ctx context.Context, u *user.User, displayName *string) (*user.User, error) {
	if displayName == nil {
		return u, nil
	}
	u.DisplayName = displayName
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteAccount(ctx context.Context, u *user.User) error {
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return err
	}
	s.log.Info("Account deleted", zap.Uint("user_id", u.ID))
	return nil
}

type OAuthResult struct {
	Tokens  *token.Pair
	User    *user.User
	Picture string
}

// OAuthLogin signs in with a provider authorization code, creating a
// verified password-less account on first use. An account that already
// exists for the email is reused as is.
func (s *Service) OAuthLogin(ctx context.Context, providerName, code, redirectURI string) (*OAuthResult, error) {
	provider, err := s.providers.Get(providerName)
	if err != nil {
		return nil, err
	}

	profile, err := provider.Authenticate(ctx, code, redirectURI)
	if err != nil {
		s.log.Warn("OAuth authentication failed", zap.String("provider", providerName), zap.Error(err))
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, profile.Email)
	if errors.Is(err, user.ErrUserNotFound) {
		u = &user.User{Email: profile.Email, IsVerified: true}
		if profile.Name != "" {
			name := profile.Name
			u.DisplayName = &name
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
		s.log.Info("OAuth user created", zap.String("provider", providerName), zap.Uint("user_id", u.ID))
	} else if err != nil {
		return nil, err
	}

	pair, err := s.tokens.IssuePair(token.NewClaims(u.ID, u.Email))
	if err != nil {
		return nil, err
	}
	return &OAuthResult{Tokens: pair, User: u, Picture: profile.Picture}, nil
}

// ForgotPassword mails a reset link when the email belongs to a password
// account. It reports nothing about whether it did.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if !u.HasPassword() {
		return nil
	}

	resetToken, err := s.tokens.IssueResetToken(u.ID, u.Email, *u.PasswordHash)
	if err != nil {
		return err
	}
	if !s.mailer.SendPasswordReset(ctx, u.Email, resetToken) {
		s.log.Warn("password reset email not delivered", zap.Uint("user_id", u.ID))
	}
	return nil
}

// ResetPassword replaces the password of the user a reset token was issued
// to. Tokens are single use because the new hash changes their signing key.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	peeked, err := token.PeekSubject(resetToken)
	if err != nil {
		return ErrInvalidResetToken
	}
	id, err := peeked.UserID()
	if err != nil {
		return ErrInvalidResetToken
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if !u.HasPassword() {
		return ErrInvalidResetToken
	}
	if _, err := s.tokens.VerifyResetToken(resetToken, *u.PasswordHash); err != nil {
		return ErrInvalidResetToken
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = &hash
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	s.log.Info("Password reset", zap.Uint("user_id", u.ID))
	return nil
}
