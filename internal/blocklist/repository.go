package blocklist

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrAlreadyBlocked = errors.New("website already in blocklist")
	ErrNotBlocked     = errors.New("website not found in blocklist")
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	ListByUser(ctx context.Context, userID uint) ([]Item, error)
	Exists(ctx context.Context, userID uint, website string) (bool, error)
	// DeleteByWebsite returns ErrNotBlocked when nothing was deleted.
	DeleteByWebsite(ctx context.Context, userID uint, website string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item *Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]Item, error) {
	var items []Item
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&items).Error
	return items, err
}

func (r *repository) Exists(ctx context.Context, userID uint, website string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Item{}).
		Where("user_id = ? AND website = ?", userID, website).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) DeleteByWebsite(ctx context.Context, userID uint, website string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND website = ?", userID, website).
		Delete(&Item{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotBlocked
	}
	return nil
}
