package activity

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"
)

type mockRepository struct {
	activities map[uint]Activity
	nextID     uint
	mu         sync.RWMutex
}

// NewMockRepository returns an in-memory Repository for tests.
func NewMockRepository() Repository {
	return &mockRepository{
		activities: make(map[uint]Activity),
		nextID:     1,
	}
}

func clone(a Activity) Activity {
	a.TopicTags = slices.Clone(a.TopicTags)
	return a
}

func (r *mockRepository) Create(_ context.Context, a *Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = r.nextID
	r.nextID++
	if a.CompletedAt.IsZero() {
		a.CompletedAt = time.Now()
	}
	r.activities[a.ID] = clone(*a)
	return nil
}

func (r *mockRepository) Get(_ context.Context, id, userID uint) (*Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[id]
	if !ok || a.UserID != userID {
		return nil, ErrActivityNotFound
	}
	out := clone(a)
	return &out, nil
}

func (r *mockRepository) GetByProblemURL(_ context.Context, userID uint, problemURL string) (*Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.activities {
		if a.UserID == userID && a.ProblemURL == problemURL {
			out := clone(a)
			return &out, nil
		}
	}
	return nil, ErrActivityNotFound
}

func (r *mockRepository) List(_ context.Context, userID uint, limit, offset int) ([]Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []Activity
	for _, a := range r.activities {
		if a.UserID == userID {
			all = append(all, clone(a))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CompletedAt.Equal(all[j].CompletedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CompletedAt.After(all[j].CompletedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *mockRepository) Update(_ context.Context, a *Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.activities[a.ID]; !ok {
		return ErrActivityNotFound
	}
	r.activities[a.ID] = clone(*a)
	return nil
}

func (r *mockRepository) Delete(_ context.Context, id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[id]
	if !ok || a.UserID != userID {
		return ErrActivityNotFound
	}
	delete(r.activities, id)
	return nil
}

func (r *mockRepository) Stats(_ context.Context, userID uint) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, a := range r.activities {
		if a.UserID == userID {
			counts[a.Status]++
		}
	}
	rows := make([]statusCount, 0, len(counts))
	for status, n := range counts {
		rows = append(rows, statusCount{Status: status, Count: n})
	}
	return tally(rows), nil
}
