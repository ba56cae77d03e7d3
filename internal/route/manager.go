package route

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/enrich"
	"github.com/wanderlist/wanderlist/internal/geocode"
	"github.com/wanderlist/wanderlist/internal/item"
)

// ManagerConfig holds dependencies for the planner manager.
type ManagerConfig struct {
	Items    *item.Service
	Geocoder geocode.Provider
	Enricher enrich.Provider
	Logger   zerolog.Logger
}

// Manager holds at most one open planner per item. Opening a planner for
// an item supersedes any previous session for that item, which closes the
// old session so its in-flight results are discarded.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Planner

	items    *item.Service
	geocoder geocode.Provider
	enricher enrich.Provider
	logger   zerolog.Logger
}

// NewManager creates a planner manager.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		sessions: make(map[string]*Planner),
		items:    cfg.Items,
		geocoder: cfg.Geocoder,
		enricher: cfg.Enricher,
		logger:   cfg.Logger,
	}
}

// Open starts a planning session for the user's item in the given mode.
func (m *Manager) Open(ctx context.Context, userID, itemID string, mode Mode) (*Planner, error) {
	if !IsValidMode(mode) {
		return nil, fmt.Errorf("%w: %q", ErrWrongMode, mode)
	}

	it, err := m.items.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	p := newPlanner(it, mode, m.items, m.geocoder, m.enricher, m.logger)

	key := sessionKey(userID, itemID)
	m.mu.Lock()
	if prev, ok := m.sessions[key]; ok {
		prev.Close()
	}
	m.sessions[key] = p
	m.mu.Unlock()

	m.logger.Debug().Str("item_id", itemID).Str("mode", string(mode)).Msg("planner opened")
	return p, nil
}

// Get returns the open planner for the user's item.
func (m *Manager) Get(userID, itemID string) (*Planner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.sessions[sessionKey(userID, itemID)]
	if !ok || p.Closed() {
		return nil, ErrNoSession
	}
	return p, nil
}

// Close ends the planner session for the user's item, if one is open.
func (m *Manager) Close(userID, itemID string) {
	key := sessionKey(userID, itemID)
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.sessions[key]; ok {
		p.Close()
		delete(m.sessions, key)
	}
}

func sessionKey(userID, itemID string) string {
	return userID + ":" + itemID
}
