package backup

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/item"
)

// DefaultDelay is the simulated network latency applied to backup and
// restore calls.
const DefaultDelay = 2 * time.Second

// ServiceConfig holds dependencies for the backup service.
type ServiceConfig struct {
	Items  *item.Service
	Store  Store
	Logger zerolog.Logger

	// Delay overrides the simulated latency. Zero means DefaultDelay;
	// use a negative value for no delay.
	Delay time.Duration
}

// Service snapshots the user's item list to the backup store and restores
// the most recent snapshot.
type Service struct {
	items  *item.Service
	store  Store
	delay  time.Duration
	logger zerolog.Logger
}

// NewService creates a backup service.
func NewService(cfg ServiceConfig) *Service {
	delay := cfg.Delay
	if delay == 0 {
		delay = DefaultDelay
	}
	if delay < 0 {
		delay = 0
	}
	return &Service{
		items:  cfg.Items,
		store:  cfg.Store,
		delay:  delay,
		logger: cfg.Logger,
	}
}

// Run takes a full snapshot of the user's items.
func (s *Service) Run(ctx context.Context, userID string) (*Snapshot, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	items, err := s.items.List(ctx, userID, item.ListFilter{})
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:        "bak_" + uuid.New().String()[:22],
		UserID:    userID,
		Items:     items,
		CreatedAt: time.Now(),
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("backup_id", snap.ID).
		Int("item_count", len(items)).
		Msg("backup snapshot saved")
	return snap, nil
}

// Restore returns the most recent snapshot for the user.
func (s *Service) Restore(ctx context.Context, userID string) (*Snapshot, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	return s.store.Latest(ctx, userID)
}

// simulateLatency waits out the artificial delay, honoring cancellation.
func (s *Service) simulateLatency(ctx context.Context) error {
	if s.delay == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}
