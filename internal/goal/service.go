package goal

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/api"
	"github.com/leetguard/leetguard-server/internal/user"
)

const (
	MinTarget = 1
	MaxTarget = 100
	// MaxDelta bounds one progress increment.
	MaxDelta = 100

	dateLayout = "2006-01-02"
)

type Goal struct {
	TargetDaily   int    `json:"target_daily"`
	ProgressToday int    `json:"progress_today"`
	ProgressDate  string `json:"progress_date"`
}

type Service struct {
	log   *zap.Logger
	users user.Repository
	now   func() time.Time
}

func NewService(log *zap.Logger, users user.Repository) *Service {
	return &Service{
		log:   log,
		users: users,
		now:   time.Now,
	}
}

func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// rollover resets progress when the stored day is not today in UTC and
// reports whether the user changed.
func (s *Service) rollover(u *user.User) bool {
	today := s.today()
	y, m, d := u.ProgressDate.Date()
	if time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Equal(today) {
		return false
	}
	u.ProgressToday = 0
	u.ProgressDate = today
	return true
}

func toGoal(u *user.User) *Goal {
	return &Goal{
		TargetDaily:   u.TargetDaily,
		ProgressToday: u.ProgressToday,
		ProgressDate:  u.ProgressDate.Format(dateLayout),
	}
}

func (s *Service) Get(ctx context.Context, u *user.User) (*Goal, error) {
	if s.rollover(u) {
		if err := s.users.SaveGoal(ctx, u); err != nil {
			return nil, err
		}
	}
	return toGoal(u), nil
}

func (s *Service) SetTarget(ctx context.Context, u *user.User, target int) (*Goal, error) {
	if target < MinTarget || target > MaxTarget {
		return nil, api.Invalid("target_daily", "value must be between 1 and 100")
	}

	s.rollover(u)
	u.TargetDaily = target
	if err := s.users.SaveGoal(ctx, u); err != nil {
		return nil, err
	}
	return toGoal(u), nil
}

func (s *Service) AddProgress(ctx context.Context, u *user.User, delta int) (*Goal, error) {
	if delta < 1 || delta > MaxDelta {
		return nil, api.Invalid("delta", "value must be between 1 and 100")
	}

	s.rollover(u)
	u.ProgressToday += delta
	if err := s.users.SaveGoal(ctx, u); err != nil {
		return nil, err
	}
	return toGoal(u), nil
}

// RecordSolved adds one to today's progress of the given user.
func (s *Service) RecordSolved(ctx context.Context, userID uint) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	g, err := s.AddProgress(ctx, u, 1)
	if err != nil {
		return err
	}

	s.log.Debug("goal progress recorded",
		zap.Uint("user_id", userID),
		zap.Int("progress_today", g.ProgressToday),
		zap.Int("target_daily", g.TargetDaily))
	return nil
}
