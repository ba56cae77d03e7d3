package item

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and local development. Production should use
// PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Item
}

// NewInMemoryRepository creates a new in-memory item repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		items: make(map[string]*Item),
	}
}

// GetByUserAndID retrieves an item scoped to a user.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, itemID string) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[itemID]
	if !ok || it.UserID != userID {
		return nil, ErrItemNotFound
	}

	cpy := cloneItem(it)
	return cpy, nil
}

// List retrieves all items for a user in creation order.
func (r *InMemoryRepository) List(_ context.Context, userID string, filter ListFilter) ([]*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*Item
	for _, it := range r.items {
		if it.UserID != userID {
			continue
		}
		if !matchesFilter(it, filter) {
			continue
		}
		items = append(items, cloneItem(it))
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}

// Create creates a new item.
func (r *InMemoryRepository) Create(_ context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[it.ID] = cloneItem(it)
	return nil
}

// Update replaces an existing item by ID.
func (r *InMemoryRepository) Update(_ context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[it.ID]
	if !ok || existing.UserID != it.UserID {
		return ErrItemNotFound
	}

	r.items[it.ID] = cloneItem(it)
	return nil
}

// Delete deletes an item by ID.
func (r *InMemoryRepository) Delete(_ context.Context, userID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[itemID]
	if !ok || existing.UserID != userID {
		return ErrItemNotFound
	}

	delete(r.items, itemID)
	return nil
}

func matchesFilter(it *Item, filter ListFilter) bool {
	if filter.Category != "" {
		if it.Category == nil || *it.Category != filter.Category {
			return false
		}
	}
	if filter.Interest != "" {
		found := false
		for _, tag := range it.Interests {
			if tag == filter.Interest {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Completed != nil && it.Completed != *filter.Completed {
		return false
	}
	return true
}

// cloneItem returns a deep copy so callers can't mutate stored state.
func cloneItem(it *Item) *Item {
	cpy := *it

	cpy.Images = append([]string(nil), it.Images...)
	cpy.Interests = append([]string(nil), it.Interests...)
	cpy.Itinerary = cloneStops(it.Itinerary)

	if it.Coordinates != nil {
		c := *it.Coordinates
		cpy.Coordinates = &c
	}
	if it.CompletedAt != nil {
		ts := *it.CompletedAt
		cpy.CompletedAt = &ts
	}
	if it.RoadTrip != nil {
		rt := *it.RoadTrip
		rt.Stops = cloneStops(it.RoadTrip.Stops)
		if it.RoadTrip.StartCoordinates != nil {
			c := *it.RoadTrip.StartCoordinates
			rt.StartCoordinates = &c
		}
		cpy.RoadTrip = &rt
	}

	return &cpy
}

func cloneStops(stops []Stop) []Stop {
	if stops == nil {
		return nil
	}
	out := make([]Stop, len(stops))
	for i, s := range stops {
		out[i] = s
		if s.Coordinates != nil {
			c := *s.Coordinates
			out[i].Coordinates = &c
		}
		out[i].Images = append([]string(nil), s.Images...)
	}
	return out
}
