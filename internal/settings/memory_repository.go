package settings

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string]*Settings
}

// NewInMemoryRepository creates a new in-memory settings repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byUser: make(map[string]*Settings)}
}

// Get retrieves a user's settings.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	cpy := *s
	return &cpy, nil
}

// Put stores a user's settings.
func (r *InMemoryRepository) Put(_ context.Context, s *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *s
	r.byUser[s.UserID] = &cpy
	return nil
}
