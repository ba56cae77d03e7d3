package models

import "github.com/wanderlist/wanderlist/pkg/geo"

// Stop represents a waypoint inside an itinerary or road trip.
type Stop struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Completed   bool            `json:"completed"`
	Coordinates *geo.Coordinate `json:"coordinates,omitempty"`
	IsImportant bool            `json:"isImportant,omitempty"`
	Images      []string        `json:"images,omitempty"`
}

// RoadTrip represents a linear road-trip chain.
type RoadTrip struct {
	StartLocation    string          `json:"startLocation"`
	StartCoordinates *geo.Coordinate `json:"startCoordinates,omitempty"`
	Stops            []Stop          `json:"stops"`
}

// Item is the API representation of a bucket-list item.
type Item struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	LocationName    *string         `json:"locationName,omitempty"`
	Coordinates     *geo.Coordinate `json:"coordinates,omitempty"`
	Images          []string        `json:"images,omitempty"`
	Completed       bool            `json:"completed"`
	CompletedAt     *Timestamp      `json:"completedAt,omitempty"`
	Category        *string         `json:"category,omitempty"`
	Interests       []string        `json:"interests,omitempty"`
	Owner           *string         `json:"owner,omitempty"`
	BestTimeToVisit *string         `json:"bestTimeToVisit,omitempty"`
	Itinerary       []Stop          `json:"itinerary,omitempty"`
	RoadTrip        *RoadTrip       `json:"roadTrip,omitempty"`
	CreatedAt       Timestamp       `json:"createdAt"`
	UpdatedAt       Timestamp       `json:"updatedAt"`
}

// ItemList is the list response for items.
type ItemList struct {
	Items []Item `json:"items"`
}

// ItemCreateRequest is the request body for creating an item.
type ItemCreateRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	LocationName    *string         `json:"locationName,omitempty"`
	Coordinates     *geo.Coordinate `json:"coordinates,omitempty"`
	Images          []string        `json:"images,omitempty"`
	Category        *string         `json:"category,omitempty"`
	Interests       []string        `json:"interests,omitempty"`
	Owner           *string         `json:"owner,omitempty"`
	BestTimeToVisit *string         `json:"bestTimeToVisit,omitempty"`
}

// ItemUpdateRequest is the request body for a partial item update.
// Nil fields are left unchanged.
type ItemUpdateRequest struct {
	Title           *string         `json:"title,omitempty"`
	Description     *string         `json:"description,omitempty"`
	LocationName    *string         `json:"locationName,omitempty"`
	Coordinates     *geo.Coordinate `json:"coordinates,omitempty"`
	Images          []string        `json:"images,omitempty"`
	Category        *string         `json:"category,omitempty"`
	Interests       []string        `json:"interests,omitempty"`
	Owner           *string         `json:"owner,omitempty"`
	BestTimeToVisit *string         `json:"bestTimeToVisit,omitempty"`
}

// CompletionRequest is the request body for toggling item completion.
// Completing an item requires a user-confirmed date.
type CompletionRequest struct {
	Completed   bool       `json:"completed"`
	CompletedAt *Timestamp `json:"completedAt,omitempty"`
}
