// Package enrich defines the content enrichment domain: generating stop
// details, suggested itineraries, and drafted items from free text.
package enrich

import (
	"context"
	"errors"

	"github.com/wanderlist/wanderlist/internal/item"
)

// Predefined errors for enrichment operations.
var (
	// ErrUnavailable indicates the enrichment backend could not be reached.
	ErrUnavailable = errors.New("enrichment provider unavailable")

	// ErrNoResult indicates the backend produced nothing usable for the input.
	ErrNoResult = errors.New("no enrichment result")

	// ErrInvalidDraft indicates the drafted item failed validation.
	ErrInvalidDraft = errors.New("invalid drafted item")
)

// Draft is a machine-suggested item generated from free text. All fields
// are proposals and the user edits them before saving.
type Draft struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	LocationName *string  `json:"locationName,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Interests    []string `json:"interests,omitempty"`
}

// Provider produces enriched travel content. Implementations must tolerate
// being called with short or vague input and return ErrNoResult rather
// than invented data when they cannot help.
type Provider interface {
	// LookupStop fills in details for a named stop near the given location.
	LookupStop(ctx context.Context, name, location string) (*item.Stop, error)

	// GenerateItinerary proposes an ordered list of stops for a destination.
	GenerateItinerary(ctx context.Context, locationName string) ([]item.Stop, error)

	// GenerateRoadTripStops proposes waypoints between a start and a destination.
	GenerateRoadTripStops(ctx context.Context, start, destination string) ([]item.Stop, error)

	// OptimizeOrder reorders stop names into an efficient visiting order.
	// The returned slice contains only names from the input.
	OptimizeOrder(ctx context.Context, location string, names []string) ([]string, error)

	// DraftItem turns free text into a draft bucket-list item.
	DraftItem(ctx context.Context, text string) (*Draft, error)
}
