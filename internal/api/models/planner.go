package models

import "github.com/wanderlist/wanderlist/pkg/geo"

// PlannerOpenRequest is the request body for opening a planner session.
type PlannerOpenRequest struct {
	Mode string `json:"mode"`
}

// StopAddRequest is the request body for adding a stop.
type StopAddRequest struct {
	Name string `json:"name"`
}

// StopMoveRequest is the request body for reordering a stop.
type StopMoveRequest struct {
	To int `json:"to"`
}

// StopCompletionRequest is the request body for toggling a stop's
// completion state.
type StopCompletionRequest struct {
	Completed bool `json:"completed"`
}

// StartLocationRequest is the request body for setting a road trip's
// start location by free-text query.
type StartLocationRequest struct {
	Query string `json:"query"`
}

// ConfirmRequest carries the confirm flag for operations that discard
// existing stops.
type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

// CurrentLocationRequest is the request body for updating the planner's
// known device position.
type CurrentLocationRequest struct {
	Coordinate geo.Coordinate `json:"coordinate"`
}

// NavigationURLResponse carries the Google Maps direction deep link.
type NavigationURLResponse struct {
	URL string `json:"url"`
}
