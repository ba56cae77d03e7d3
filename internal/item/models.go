// Package item provides bucket-list item management.
package item

import (
	"errors"
	"time"

	"github.com/wanderlist/wanderlist/pkg/geo"
)

// Repository errors.
var (
	ErrItemNotFound = errors.New("item not found")
)

// CategoryOther is the fallback category for uncategorised items.
const CategoryOther = "Other"

// Item represents a bucket-list entry: an aspirational place or activity.
type Item struct {
	ID          string
	UserID      string
	Title       string
	Description string

	LocationName *string
	Coordinates  *geo.Coordinate

	// Images in insertion order; the client cycles through them for the
	// gallery and card fallback.
	Images []string

	Completed bool
	// CompletedAt is present iff Completed is true. The completion date is
	// user-confirmed, not implied by the toggle time.
	CompletedAt *time.Time

	Category        *string
	Interests       []string
	Owner           *string
	BestTimeToVisit *string

	// Itinerary is the ordered visiting sequence for a single destination.
	Itinerary []Stop

	// RoadTrip is the linear start-to-destination chain, if planned.
	RoadTrip *RoadTrip

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stop is a single waypoint inside an itinerary or road trip. Its completion
// state is independent of the parent item's.
type Stop struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Completed   bool            `json:"completed"`
	Coordinates *geo.Coordinate `json:"coordinates,omitempty"`
	IsImportant bool            `json:"isImportant,omitempty"`
	Images      []string        `json:"images,omitempty"`
}

// RoadTrip holds the linear road-trip chain for an item. Stops are in
// visiting order, not geographically sorted; the parent item's own
// coordinates are the implicit end of the chain.
type RoadTrip struct {
	StartLocation    string          `json:"startLocation"`
	StartCoordinates *geo.Coordinate `json:"startCoordinates,omitempty"`
	Stops            []Stop          `json:"stops"`
}

// DisplayOwner returns the item's owner label, defaulting to "Me".
func (i *Item) DisplayOwner() string {
	if i.Owner != nil && *i.Owner != "" {
		return *i.Owner
	}
	return "Me"
}
