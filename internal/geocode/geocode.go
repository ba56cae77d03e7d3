// Package geocode defines the geocoding domain: resolving free-text place
// names to coordinates and coordinates back to display names.
package geocode

import (
	"context"
	"errors"

	"github.com/wanderlist/wanderlist/pkg/geo"
)

// Predefined errors for geocoding operations.
var (
	// ErrNoResult indicates the query did not match any known place.
	ErrNoResult = errors.New("no geocoding result")

	// ErrProviderUnavailable indicates the upstream geocoder could not be
	// reached or returned a server error.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")

	// ErrRateLimited indicates the provider rejected the request due to
	// usage limits.
	ErrRateLimited = errors.New("geocoding rate limit exceeded")
)

// Place is a resolved location.
type Place struct {
	// Name is the provider's canonical display name for the place.
	Name string `json:"name"`

	// Coordinate is the place's position.
	Coordinate geo.Coordinate `json:"coordinate"`
}

// Provider resolves place names and coordinates.
type Provider interface {
	// Forward geocodes a free-text query to a place.
	// Returns ErrNoResult when nothing matches.
	Forward(ctx context.Context, query string) (*Place, error)

	// Reverse resolves a coordinate to a display name.
	// Returns ErrNoResult when the position cannot be described.
	Reverse(ctx context.Context, coord geo.Coordinate) (string, error)

	// Name identifies the provider.
	Name() string
}
