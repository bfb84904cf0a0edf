package verification

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/config"
	"github.com/leetguard/leetguard-server/internal/user"
)

var (
	ErrCodeInvalid    = errors.New("invalid or expired verification code")
	ErrDeliveryFailed = errors.New("failed to send verification email")
)

// CooldownError rejects a resend issued before the cooldown elapsed.
type CooldownError struct {
	Wait time.Duration
}

// Seconds is the remaining wait rounded down.
func (e *CooldownError) Seconds() int {
	return int(math.Floor(e.Wait.Seconds()))
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("You can request a new code in %d seconds.", e.Seconds())
}

type Notifier interface {
	SendVerificationCode(ctx context.Context, to, code string) bool
	SendWelcome(ctx context.Context, to string) bool
}

type Workflow struct {
	config   *config.VerificationConfig
	log      *zap.Logger
	users    user.Repository
	notifier Notifier
	now      func() time.Time
	generate func() (string, error)
}

func NewWorkflow(config *config.VerificationConfig, log *zap.Logger, users user.Repository, notifier Notifier) *Workflow {
	return &Workflow{
		config:   config,
		log:      log,
		users:    users,
		notifier: notifier,
		now:      time.Now,
		generate: GenerateCode,
	}
}

// ResendCooldown is the fixed wait between two codes sent to one user. The
// per-user resend_cooldown_seconds column is always reset to it.
const ResendCooldown = 30 * time.Second

func (w *Workflow) cooldown() time.Duration {
	return ResendCooldown
}

// Stamp puts a fresh pending code on u without persisting it.
func (w *Workflow) Stamp(u *user.User) error {
	code, err := w.generate()
	if err != nil {
		return err
	}

	now := w.now().UTC()
	expires := now.Add(w.config.CodeTTL)
	u.IsVerified = false
	u.VerificationCode = &code
	u.VerificationExpiresAt = &expires
	u.LastCodeSentAt = &now
	u.ResendCooldownSeconds = int(w.cooldown().Seconds())
	return nil
}

// Deliver sends u's pending code. Delivery failure leaves the code valid.
func (w *Workflow) Deliver(ctx context.Context, u *user.User) bool {
	if u.VerificationCode == nil {
		return false
	}

	sent := w.notifier.SendVerificationCode(ctx, u.Email, *u.VerificationCode)
	if !sent {
		w.log.Warn("verification email not delivered", zap.Uint("user_id", u.ID))
	}
	return sent
}

// Issue stamps, persists and then delivers a new code. The state change is
// committed before delivery is attempted.
func (w *Workflow) Issue(ctx context.Context, u *user.User) (bool, error) {
	if err := w.Stamp(u); err != nil {
		return false, err
	}
	if err := w.users.Update(ctx, u); err != nil {
		return false, fmt.Errorf("store verification code: %w", err)
	}
	return w.Deliver(ctx, u), nil
}

type ResendResult struct {
	AlreadyVerified bool
}

// Resend issues a new code once the cooldown since the last send elapsed.
// The check and the write are not atomic.
func (w *Workflow) Resend(ctx context.Context, email string) (*ResendResult, error) {
	u, err := w.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.IsVerified {
		return &ResendResult{AlreadyVerified: true}, nil
	}

	if u.LastCodeSentAt != nil {
		elapsed := w.now().Sub(*u.LastCodeSentAt)
		if elapsed < w.cooldown() {
			return nil, &CooldownError{Wait: w.cooldown() - elapsed}
		}
	}

	sent, err := w.Issue(ctx, u)
	if err != nil {
		return nil, err
	}
	if !sent {
		return nil, ErrDeliveryFailed
	}
	return &ResendResult{}, nil
}

// Verify consumes a pending code. It reports alreadyVerified without any
// state change when the user is verified.
func (w *Workflow) Verify(ctx context.Context, email, code string) (alreadyVerified bool, err error) {
	u, err := w.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if u.IsVerified {
		return true, nil
	}

	if u.VerificationCode == nil || u.VerificationExpiresAt == nil {
		return false, ErrCodeInvalid
	}
	if subtle.ConstantTimeCompare([]byte(*u.VerificationCode), []byte(code)) != 1 {
		return false, ErrCodeInvalid
	}
	if !w.now().Before(*u.VerificationExpiresAt) {
		return false, ErrCodeInvalid
	}

	u.IsVerified = true
	u.VerificationCode = nil
	u.VerificationExpiresAt = nil
	u.LastCodeSentAt = nil
	u.ResendCooldownSeconds = int(w.cooldown().Seconds())
	if err := w.users.Update(ctx, u); err != nil {
		return false, fmt.Errorf("mark user verified: %w", err)
	}

	if !w.notifier.SendWelcome(ctx, u.Email) {
		w.log.Warn("welcome email not delivered", zap.Uint("user_id", u.ID))
	}
	return false, nil
}
