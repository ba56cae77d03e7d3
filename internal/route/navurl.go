package route

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/wanderlist/wanderlist/pkg/geo"
)

// maxNavigationWaypoints is the Google Maps directions API waypoint ceiling.
const maxNavigationWaypoints = 9

// navigationURL builds a Google Maps directions deep link from origin to
// destination through up to nine intermediate waypoints.
func navigationURL(origin, destination geo.Coordinate, waypoints []geo.Coordinate) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", formatCoord(origin))
	q.Set("destination", formatCoord(destination))

	if len(waypoints) > 0 {
		if len(waypoints) > maxNavigationWaypoints {
			waypoints = waypoints[:maxNavigationWaypoints]
		}
		parts := make([]string, 0, len(waypoints))
		for _, w := range waypoints {
			parts = append(parts, formatCoord(w))
		}
		q.Set("waypoints", strings.Join(parts, "|"))
	}

	q.Set("travelmode", "driving")

	return "https://www.google.com/maps/dir/?" + q.Encode()
}

func formatCoord(c geo.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lon, 'f', 6, 64)
}
