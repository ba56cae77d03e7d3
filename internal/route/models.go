// Package route implements the itinerary and road-trip planning engine:
// stop editing, deterministic pseudo-coordinates, order optimization with
// reconciliation, route statistics, and navigation deep links.
package route

import (
	"errors"

	"github.com/wanderlist/wanderlist/pkg/geo"
)

// Mode selects which waypoint chain a planner operates on. The two modes
// are never mixed within one computation.
type Mode string

const (
	// ModeDestination plans sights around a single destination. The walk
	// starts at the item's anchor coordinate.
	ModeDestination Mode = "destination"

	// ModeRoadTrip plans a linear drive: start point, ordered stops, and
	// the item's anchor coordinate as the end.
	ModeRoadTrip Mode = "roadtrip"
)

// Average speeds used for duration estimates. Destination itineraries are
// walked; road trips are driven.
const (
	DestinationSpeedKmh = 5.0
	RoadTripSpeedKmh    = 80.0
)

// Predefined errors for planner operations.
var (
	// ErrBlankStop indicates an add with an empty stop name.
	ErrBlankStop = errors.New("stop name is blank")

	// ErrStopNotFound indicates a stop index outside the sequence.
	ErrStopNotFound = errors.New("stop not found")

	// ErrWrongMode indicates an operation not available in the planner's mode.
	ErrWrongMode = errors.New("operation not available in this mode")

	// ErrConfirmRequired indicates a destructive replace needs explicit
	// confirmation because stops already exist.
	ErrConfirmRequired = errors.New("confirmation required to discard existing stops")

	// ErrTooFewStops indicates optimization needs at least two stops.
	ErrTooFewStops = errors.New("too few stops to optimize")

	// ErrNoAnchor indicates the item has no geocoded location to plan around.
	ErrNoAnchor = errors.New("item has no anchor coordinate")

	// ErrNoLocation indicates the item has no location name to generate from.
	ErrNoLocation = errors.New("item has no location name")

	// ErrStartUnresolved indicates the road-trip start location has not been
	// resolved to coordinates yet.
	ErrStartUnresolved = errors.New("start location not resolved")

	// ErrPlannerClosed indicates the planning session was closed or
	// superseded; late results must not be applied.
	ErrPlannerClosed = errors.New("planner session closed")

	// ErrNoSession indicates no open planner exists for the item.
	ErrNoSession = errors.New("no planner session for item")
)

// IsValidMode reports whether m is a known planning mode.
func IsValidMode(m Mode) bool {
	return m == ModeDestination || m == ModeRoadTrip
}

// speedFor returns the mode's average speed in km/h.
func speedFor(m Mode) float64 {
	if m == ModeRoadTrip {
		return RoadTripSpeedKmh
	}
	return DestinationSpeedKmh
}

// coordPtr copies a coordinate to a fresh pointer.
func coordPtr(c geo.Coordinate) *geo.Coordinate {
	out := c
	return &out
}
