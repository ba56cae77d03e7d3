package reminder

import (
	"context"
	"sync"
)

// InMemoryMarkerStore keeps markers in a map. Used in tests and local dev;
// markers do not survive a restart, which at worst repeats one reminder.
type InMemoryMarkerStore struct {
	mu      sync.Mutex
	markers map[string]struct{}
}

// NewInMemoryMarkerStore creates an empty marker store.
func NewInMemoryMarkerStore() *InMemoryMarkerStore {
	return &InMemoryMarkerStore{markers: make(map[string]struct{})}
}

// TryMark claims the marker, returning false if it was already set.
func (s *InMemoryMarkerStore) TryMark(_ context.Context, userID, date string, slot Slot) (bool, error) {
	key := userID + ":" + date + ":" + string(slot)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.markers[key]; exists {
		return false, nil
	}
	s.markers[key] = struct{}{}
	return true, nil
}
