package activity

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ProgressRecorder counts a newly solved problem towards the daily goal.
type ProgressRecorder interface {
	RecordSolved(ctx context.Context, userID uint) error
}

type SubmitInput struct {
	ProblemName string
	ProblemURL  string
	Difficulty  string
	TopicTags   []string
	Status      string
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	ProblemName *string
	ProblemURL  *string
	Difficulty  *string
	TopicTags   *[]string
	Status      *string
}

type Service struct {
	log        *zap.Logger
	repository Repository
	progress   ProgressRecorder
	now        func() time.Time
}

func NewService(log *zap.Logger, repo Repository, progress ProgressRecorder) *Service {
	return &Service{
		log:        log,
		repository: repo,
		progress:   progress,
		now:        time.Now,
	}
}

// Submit upserts by problem URL. A resubmission only changes the status of
// the existing record. It reports whether a new record was created.
func (s *Service) Submit(ctx context.Context, userID uint, in SubmitInput) (*Activity, bool, error) {
	existing, err := s.repository.GetByProblemURL(ctx, userID, in.ProblemURL)
	switch {
	case err == nil:
		existing.Status = in.Status
		if err := s.repository.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case !errors.Is(err, ErrActivityNotFound):
		return nil, false, err
	}

	a := &Activity{
		UserID:      userID,
		ProblemName: in.ProblemName,
		ProblemURL:  in.ProblemURL,
		Difficulty:  in.Difficulty,
		TopicTags:   in.TopicTags,
		Status:      in.Status,
		CompletedAt: s.now().UTC(),
	}
	if err := s.repository.Create(ctx, a); err != nil {
		return nil, false, err
	}

	if a.Status == StatusSolved && s.progress != nil {
		if err := s.progress.RecordSolved(ctx, userID); err != nil {
			s.log.Warn("failed to record goal progress",
				zap.Uint("user_id", userID),
				zap.Error(err))
		}
	}
	return a, true, nil
}

func (s *Service) List(ctx context.Context, userID uint, limit, offset int) ([]Activity, error) {
	return s.repository.List(ctx, userID, limit, offset)
}

func (s *Service) Get(ctx context.Context, id, userID uint) (*Activity, error) {
	return s.repository.Get(ctx, id, userID)
}

func (s *Service) Update(ctx context.Context, id, userID uint, in UpdateInput) (*Activity, error) {
	a, err := s.repository.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.ProblemName != nil {
		a.ProblemName = *in.ProblemName
	}
	if in.ProblemURL != nil {
		a.ProblemURL = *in.ProblemURL
	}
	if in.Difficulty != nil {
		a.Difficulty = *in.Difficulty
	}
	if in.TopicTags != nil {
		a.TopicTags = *in.TopicTags
	}
	if in.Status != nil {
		a.Status = *in.Status
	}

	if err := s.repository.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id, userID uint) error {
	return s.repository.Delete(ctx, id, userID)
}

func (s *Service) Stats(ctx context.Context, userID uint) (*Stats, error) {
	return s.repository.Stats(ctx, userID)
}
