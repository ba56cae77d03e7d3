package settings

import (
	"context"
	"fmt"
	"time"
)

// Service provides settings operations. Reads fall back to defaults for
// users who have never saved settings, so callers always get a usable
// value.
type Service struct {
	repo Repository
}

// NewService creates a new settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves a user's settings, falling back to defaults.
func (s *Service) Get(ctx context.Context, userID string) (*Settings, error) {
	stored, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return Defaults(userID), nil
	}
	return stored, nil
}

// UpdateInput holds optional settings updates. Nil fields are unchanged.
type UpdateInput struct {
	ProximityRangeMeters *float64
	SpeechEnabled        *bool
}

// Update applies a partial settings update.
func (s *Service) Update(ctx context.Context, userID string, input UpdateInput) (*Settings, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.ProximityRangeMeters != nil {
		rng := *input.ProximityRangeMeters
		if rng < MinProximityRangeMeters || rng > MaxProximityRangeMeters {
			return nil, fmt.Errorf("%w: %.0f not in [%.0f, %.0f]",
				ErrRangeOutOfBounds, rng, MinProximityRangeMeters, MaxProximityRangeMeters)
		}
		current.ProximityRangeMeters = rng
	}
	if input.SpeechEnabled != nil {
		current.SpeechEnabled = *input.SpeechEnabled
	}

	current.UpdatedAt = time.Now()
	if err := s.repo.Put(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}

// ProximityRange returns the user's current radar threshold in meters.
// The radar reads this at sample time, so changes apply to the next
// location sample without restarting the session.
func (s *Service) ProximityRange(ctx context.Context, userID string) float64 {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return DefaultProximityRangeMeters
	}
	return current.ProximityRangeMeters
}

// SpeechEnabled reports whether spoken output is on for the user.
func (s *Service) SpeechEnabled(ctx context.Context, userID string) bool {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return true
	}
	return current.SpeechEnabled
}
