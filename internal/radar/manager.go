package radar

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/notification"
)

// ManagerConfig holds shared collaborators for all radar sessions.
type ManagerConfig struct {
	Items      ItemSource
	Ranges     RangeSource
	Permission PermissionGate
	Notifier   notification.Sink
	Speech     notification.Speech
	Log        *notification.Service
	Logger     zerolog.Logger
}

// Manager owns one radar session per user and routes pushed location
// samples into the right session.
type Manager struct {
	cfg ManagerConfig

	mu       sync.Mutex
	sessions map[string]*managedSession
}

type managedSession struct {
	radar    *Radar
	provider *PushProvider
	events   func(Event)
}

// NewManager creates a radar session manager.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		cfg:      cfg,
		sessions: make(map[string]*managedSession),
	}
}

// Start turns the user's radar ON. The events callback, when non-nil,
// receives transient radar events for the session's lifetime.
func (m *Manager) Start(ctx context.Context, userID string, events func(Event)) error {
	m.mu.Lock()
	if existing, ok := m.sessions[userID]; ok && existing.radar.Active() {
		m.mu.Unlock()
		return ErrAlreadyActive
	}

	sess := &managedSession{
		provider: NewPushProvider(),
		events:   events,
	}
	sess.radar = New(Config{
		UserID:     userID,
		Items:      m.cfg.Items,
		Ranges:     m.cfg.Ranges,
		Provider:   sess.provider,
		Permission: m.cfg.Permission,
		Notifier:   m.cfg.Notifier,
		Speech:     m.cfg.Speech,
		Log:        m.cfg.Log,
		Logger:     m.cfg.Logger.With().Str("user_id", userID).Logger(),
		Events: func(ev Event) {
			m.mu.Lock()
			cb := sess.events
			m.mu.Unlock()
			if cb != nil {
				cb(ev)
			}
		},
	})
	m.sessions[userID] = sess
	m.mu.Unlock()

	if err := sess.radar.Start(ctx); err != nil {
		m.mu.Lock()
		if m.sessions[userID] == sess {
			delete(m.sessions, userID)
		}
		m.mu.Unlock()
		return err
	}
	return nil
}

// Stop turns the user's radar OFF.
func (m *Manager) Stop(userID string) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()

	if ok {
		sess.radar.Stop()
		sess.provider.Close()
	}
}

// Push routes a location sample into the user's active session.
func (m *Manager) Push(userID string, s Sample) error {
	sess, err := m.active(userID)
	if err != nil {
		return err
	}
	sess.provider.Push(s)
	return nil
}

// PushError routes a location acquisition error into the user's session.
func (m *Manager) PushError(userID string, code ErrorCode) error {
	sess, err := m.active(userID)
	if err != nil {
		return err
	}
	sess.provider.PushError(code)
	return nil
}

// SetEvents swaps the session's event callback, e.g. when a new WebSocket
// connection takes over an already-running session.
func (m *Manager) SetEvents(userID string, events func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		sess.events = events
	}
}

// Status describes the user's radar session.
type Status struct {
	Active        bool
	NotifiedCount int
	LastFix       *Sample
}

// Status returns the current session state for a user.
func (m *Manager) Status(userID string) Status {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	m.mu.Unlock()

	if !ok {
		return Status{}
	}
	return Status{
		Active:        sess.radar.Active(),
		NotifiedCount: sess.radar.NotifiedCount(),
		LastFix:       sess.radar.LastFix(),
	}
}

func (m *Manager) active(userID string) (*managedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok || !sess.radar.Active() {
		return nil, ErrNotActive
	}
	return sess, nil
}
