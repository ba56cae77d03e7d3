// Package settings provides per-user application settings.
package settings

import (
	"context"
	"errors"
	"time"
)

// Defaults and bounds for the proximity range.
const (
	DefaultProximityRangeMeters = 2000.0
	MinProximityRangeMeters     = 100.0
	MaxProximityRangeMeters     = 100000.0
)

// Service errors.
var (
	ErrRangeOutOfBounds = errors.New("proximity range out of bounds")
)

// Settings holds a user's tunable application settings.
type Settings struct {
	UserID string

	// ProximityRangeMeters is the radar notification threshold.
	ProximityRangeMeters float64

	// SpeechEnabled controls spoken-audio output on proximity hits.
	SpeechEnabled bool

	UpdatedAt time.Time
}

// Defaults returns the default settings for a user.
func Defaults(userID string) *Settings {
	return &Settings{
		UserID:               userID,
		ProximityRangeMeters: DefaultProximityRangeMeters,
		SpeechEnabled:        true,
	}
}

// Repository defines the interface for settings persistence.
type Repository interface {
	// Get retrieves a user's settings. Returns nil (no error) when the
	// user has never saved settings.
	Get(ctx context.Context, userID string) (*Settings, error)

	// Put stores a user's settings.
	Put(ctx context.Context, s *Settings) error
}
