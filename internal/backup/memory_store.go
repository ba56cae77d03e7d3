package backup

import (
	"context"
	"sync"
)

// InMemoryStore keeps snapshots in memory. Used in tests and local dev.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]*Snapshot
}

// NewInMemoryStore creates an empty snapshot store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{snapshots: make(map[string][]*Snapshot)}
}

// Save appends a snapshot for the user.
func (s *InMemoryStore) Save(_ context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.UserID] = append(s.snapshots[snap.UserID], snap)
	return nil
}

// Latest returns the most recently saved snapshot for the user.
func (s *InMemoryStore) Latest(_ context.Context, userID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snaps := s.snapshots[userID]
	if len(snaps) == 0 {
		return nil, ErrNoBackup
	}
	return snaps[len(snaps)-1], nil
}
