package userrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zwinglabs/support-chat/internal/domain/user"
)

// MemoryRepository provides an in-memory user store for tests/dev.
type MemoryRepository struct {
	mu          sync.RWMutex
	users       map[int64]user.User
	numberIndex map[string]int64
	seq         int64
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:       make(map[int64]user.User),
		numberIndex: make(map[string]int64),
	}
}

// Create stores the user record. The sequence doubles as both ids.
func (r *MemoryRepository) Create(_ context.Context, fullName, username, number, role string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	u := user.User{
		ID:        r.seq,
		UserNo:    r.seq,
		FullName:  fullName,
		Username:  username,
		Number:    number,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	r.users[u.ID] = u
	r.numberIndex[number] = u.ID
	return u, nil
}

// FindByNumber returns a user by phone number.
func (r *MemoryRepository) FindByNumber(_ context.Context, number string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.numberIndex[number]; ok {
		return r.users[id], true, nil
	}
	return user.User{}, false, nil
}

// FindByUserNo returns a user by public id.
func (r *MemoryRepository) FindByUserNo(_ context.Context, userNo int64) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.UserNo == userNo {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

// List returns every user, newest first.
func (r *MemoryRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ user.Repository = (*MemoryRepository)(nil)
