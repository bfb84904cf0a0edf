package activity

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrActivityNotFound = errors.New("activity not found")

type Repository interface {
	Create(ctx context.Context, a *Activity) error
	// Get returns the activity only when it belongs to userID.
	Get(ctx context.Context, id, userID uint) (*Activity, error)
	GetByProblemURL(ctx context.Context, userID uint, problemURL string) (*Activity, error)
	// List returns the newest activities first.
	List(ctx context.Context, userID uint, limit, offset int) ([]Activity, error)
	Update(ctx context.Context, a *Activity) error
	Delete(ctx context.Context, id, userID uint) error
	Stats(ctx context.Context, userID uint) (*Stats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Activity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) Get(ctx context.Context, id, userID uint) (*Activity, error) {
	return r.first(ctx, "id = ? AND user_id = ?", id, userID)
}

func (r *repository) GetByProblemURL(ctx context.Context, userID uint, problemURL string) (*Activity, error) {
	return r.first(ctx, "user_id = ? AND problem_url = ?", userID, problemURL)
}

func (r *repository) first(ctx context.Context, query string, args ...any) (*Activity, error) {
	var a Activity
	if err := r.db.WithContext(ctx).Where(query, args...).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, userID uint, limit, offset int) ([]Activity, error) {
	var activities []Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&activities).Error
	return activities, err
}

func (r *repository) Update(ctx context.Context, a *Activity) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Activity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActivityNotFound
	}
	return nil
}

type statusCount struct {
	Status string
	Count  int64
}

func (r *repository) Stats(ctx context.Context, userID uint) (*Stats, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&Activity{}).
		Select("status, count(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return tally(rows), nil
}

func tally(rows []statusCount) *Stats {
	stats := &Stats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case StatusSolved:
			stats.Solved = row.Count
		case StatusAttempted:
			stats.Attempted = row.Count
		case StatusBookmarked:
			stats.Bookmarked = row.Count
		}
	}
	return stats
}
