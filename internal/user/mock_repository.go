package user

import (
	"context"
	"sync"
	"time"
)

type mockRepository struct {
	users  map[uint]*User
	nextID uint
	mu     sync.RWMutex
}

// NewMockRepository returns an in-memory Repository for tests.
func NewMockRepository() Repository {
	return &mockRepository{
		users:  make(map[uint]*User),
		nextID: 1,
	}
}

func (r *mockRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}

	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.ResendCooldownSeconds == 0 {
		user.ResendCooldownSeconds = 30
	}
	if user.TargetDaily == 0 {
		user.TargetDaily = DefaultDailyTarget
	}

	// Clone the user to prevent external modifications
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *mockRepository) GetByID(_ context.Context, id uint) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *mockRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *mockRepository) Update(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; !exists {
		return ErrUserNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *mockRepository) SaveGoal(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.users[user.ID]
	if !exists {
		return ErrUserNotFound
	}
	stored.TargetDaily = user.TargetDaily
	stored.ProgressToday = user.ProgressToday
	stored.ProgressDate = user.ProgressDate
	return nil
}

func (r *mockRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[id]; !exists {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}
