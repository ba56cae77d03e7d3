package notification

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu sync.RWMutex
	// newest first, capped to MaxRetained per user
	byUser map[string][]*Notification
}

// NewInMemoryRepository creates a new in-memory notification repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byUser: make(map[string][]*Notification),
	}
}

// Append adds a notification and trims the log to MaxRetained entries.
func (r *InMemoryRepository) Append(_ context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *n
	log := append([]*Notification{&cpy}, r.byUser[n.UserID]...)
	if len(log) > MaxRetained {
		log = log[:MaxRetained]
	}
	r.byUser[n.UserID] = log
	return nil
}

// List retrieves a user's notifications, newest first.
func (r *InMemoryRepository) List(_ context.Context, userID string) ([]*Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log := r.byUser[userID]
	out := make([]*Notification, len(log))
	for i, n := range log {
		cpy := *n
		out[i] = &cpy
	}
	return out, nil
}

// MarkRead marks a single notification as read.
func (r *InMemoryRepository) MarkRead(_ context.Context, userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.byUser[userID] {
		if n.ID == notificationID {
			n.Read = true
			return nil
		}
	}
	return ErrNotificationNotFound
}

// MarkAllRead marks all of a user's notifications as read.
func (r *InMemoryRepository) MarkAllRead(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.byUser[userID] {
		n.Read = true
	}
	return nil
}

// Clear removes all of a user's notifications.
func (r *InMemoryRepository) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byUser, userID)
	return nil
}
