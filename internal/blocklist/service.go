package blocklist

import (
	"context"

	"go.uber.org/zap"
)

type Service struct {
	log        *zap.Logger
	repository Repository
}

func NewService(log *zap.Logger, repo Repository) *Service {
	return &Service{
		log:        log,
		repository: repo,
	}
}

// Add blocks website for the user. Uniqueness is checked here, not by the
// table, so two concurrent adds may both succeed.
func (s *Service) Add(ctx context.Context, userID uint, website string) error {
	exists, err := s.repository.Exists(ctx, userID, website)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyBlocked
	}

	if err := s.repository.Create(ctx, &Item{UserID: userID, Website: website}); err != nil {
		return err
	}
	s.log.Debug("website blocked", zap.Uint("user_id", userID), zap.String("website", website))
	return nil
}

func (s *Service) Remove(ctx context.Context, userID uint, website string) error {
	return s.repository.DeleteByWebsite(ctx, userID, website)
}

// Websites lists the blocked websites in insertion order.
func (s *Service) Websites(ctx context.Context, userID uint) ([]string, error) {
	items, err := s.repository.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	websites := make([]string, 0, len(items))
	for _, item := range items {
		websites = append(websites, item.Website)
	}
	return websites, nil
}

func (s *Service) IsBlocked(ctx context.Context, userID uint, website string) (bool, error) {
	return s.repository.Exists(ctx, userID, website)
}
