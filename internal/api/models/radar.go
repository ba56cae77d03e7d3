package models

import "github.com/wanderlist/wanderlist/pkg/geo"

// RadarStatus describes the user's radar session.
type RadarStatus struct {
	Active        bool      `json:"active"`
	NotifiedCount int       `json:"notifiedCount"`
	LastFix       *RadarFix `json:"lastFix,omitempty"`
}

// RadarFix is the most recent location sample of a radar session.
type RadarFix struct {
	Coordinate geo.Coordinate `json:"coordinate"`
	At         Timestamp      `json:"at"`
}
