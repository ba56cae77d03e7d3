package enrich

import (
	"context"

	"github.com/wanderlist/wanderlist/internal/item"
)

// Disabled is a Provider for deployments without an enrichment backend
// configured. Every operation reports ErrUnavailable, which callers treat
// the same as a backend outage.
type Disabled struct{}

// LookupStop reports ErrUnavailable.
func (Disabled) LookupStop(context.Context, string, string) (*item.Stop, error) {
	return nil, ErrUnavailable
}

// GenerateItinerary reports ErrUnavailable.
func (Disabled) GenerateItinerary(context.Context, string) ([]item.Stop, error) {
	return nil, ErrUnavailable
}

// GenerateRoadTripStops reports ErrUnavailable.
func (Disabled) GenerateRoadTripStops(context.Context, string, string) ([]item.Stop, error) {
	return nil, ErrUnavailable
}

// OptimizeOrder reports ErrUnavailable.
func (Disabled) OptimizeOrder(context.Context, string, []string) ([]string, error) {
	return nil, ErrUnavailable
}

// DraftItem reports ErrUnavailable.
func (Disabled) DraftItem(context.Context, string) (*Draft, error) {
	return nil, ErrUnavailable
}
