package route

import (
	"fmt"
	"math"

	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/pkg/geo"
	"github.com/wanderlist/wanderlist/pkg/polyline"
)

// Leg is one segment of the planned route.
type Leg struct {
	From           string         `json:"from"`
	To             string         `json:"to"`
	FromCoordinate geo.Coordinate `json:"fromCoordinate"`
	ToCoordinate   geo.Coordinate `json:"toCoordinate"`
	DistanceMeters float64        `json:"distanceMeters"`
}

// Stats summarizes the route in its current visiting order.
type Stats struct {
	Mode                Mode    `json:"mode"`
	Legs                []Leg   `json:"legs"`
	TotalDistanceMeters float64 `json:"totalDistanceMeters"`
	TotalDistanceLabel  string  `json:"totalDistanceLabel"`
	EstimatedMinutes    int     `json:"estimatedMinutes"`
	DurationLabel       string  `json:"durationLabel"`

	// GeometryPolyline is the encoded path through every waypoint, for
	// client-side route preview rendering.
	GeometryPolyline string `json:"geometryPolyline"`
}

// routePoint is a named waypoint with a resolved position.
type routePoint struct {
	name  string
	coord geo.Coordinate
}

// computeStats walks the waypoint chain in visiting order and accumulates
// leg distances. Destination mode walks anchor, then each stop. Road-trip
// mode walks start, each stop, then the anchor as the final leg.
func computeStats(mode Mode, anchor geo.Coordinate, anchorName string, start *routePoint, stops []item.Stop) Stats {
	points := make([]routePoint, 0, len(stops)+2)

	switch mode {
	case ModeRoadTrip:
		if start != nil {
			points = append(points, *start)
		}
		for i, s := range stops {
			points = append(points, routePoint{name: s.Name, coord: resolveCoordinate(anchor, s, i)})
		}
		points = append(points, routePoint{name: anchorName, coord: anchor})
	default:
		points = append(points, routePoint{name: anchorName, coord: anchor})
		for i, s := range stops {
			points = append(points, routePoint{name: s.Name, coord: resolveCoordinate(anchor, s, i)})
		}
	}

	legs := make([]Leg, 0, len(points))
	coords := make([]geo.Coordinate, 0, len(points))
	var total float64

	for i, p := range points {
		coords = append(coords, p.coord)
		if i == 0 {
			continue
		}
		prev := points[i-1]
		d := geo.Distance(prev.coord, p.coord)
		total += d
		legs = append(legs, Leg{
			From:           prev.name,
			To:             p.name,
			FromCoordinate: prev.coord,
			ToCoordinate:   p.coord,
			DistanceMeters: d,
		})
	}

	minutes := estimateMinutes(total, speedFor(mode))

	return Stats{
		Mode:                mode,
		Legs:                legs,
		TotalDistanceMeters: total,
		TotalDistanceLabel:  geo.FormatDistance(total),
		EstimatedMinutes:    minutes,
		DurationLabel:       FormatDuration(minutes),
		GeometryPolyline:    polyline.Encode(coords),
	}
}

// estimateMinutes converts a distance to whole minutes at the given speed.
func estimateMinutes(distanceMeters, speedKmh float64) int {
	if distanceMeters <= 0 || speedKmh <= 0 {
		return 0
	}
	hours := (distanceMeters / 1000) / speedKmh
	return int(math.Round(hours * 60))
}

// FormatDuration renders whole minutes as "< 1 min", "N min", "X hr", or
// "X hr Y min".
func FormatDuration(minutes int) string {
	if minutes < 1 {
		return "< 1 min"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hr := minutes / 60
	rem := minutes % 60
	if rem == 0 {
		return fmt.Sprintf("%d hr", hr)
	}
	return fmt.Sprintf("%d hr %d min", hr, rem)
}
