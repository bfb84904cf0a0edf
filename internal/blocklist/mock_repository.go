package blocklist

import (
	"context"
	"sort"
	"sync"
	"time"
)

type mockRepository struct {
	items  map[uint]Item
	nextID uint
	mu     sync.RWMutex
}

// NewMockRepository returns an in-memory Repository for tests.
func NewMockRepository() Repository {
	return &mockRepository{
		items:  make(map[uint]Item),
		nextID: 1,
	}
}

func (r *mockRepository) Create(_ context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	r.items[item.ID] = *item
	return nil
}

func (r *mockRepository) ListByUser(_ context.Context, userID uint) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Item
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockRepository) Exists(_ context.Context, userID uint, website string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.Website == website {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockRepository) DeleteByWebsite(_ context.Context, userID uint, website string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := false
	for id, item := range r.items {
		if item.UserID == userID && item.Website == website {
			delete(r.items, id)
			deleted = true
		}
	}
	if !deleted {
		return ErrNotBlocked
	}
	return nil
}
