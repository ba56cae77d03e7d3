package route

import (
	"fmt"
	"math"

	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/pkg/geo"
)

// PseudoCoordinate derives a stable display position for a stop that has no
// real coordinates. The same (anchor, name, index) triple always yields the
// same offset, so persisted data renders identically everywhere. The hash is
// part of the data contract and must not change: a polynomial rolling hash
// (h = h*31 + byte) over "lat:lon:name:index" with lat/lon fixed to six
// decimals, mapped to a bearing in tenths of a degree and an offset distance
// of 800–3000 m from the anchor.
func PseudoCoordinate(anchor geo.Coordinate, name string, index int) geo.Coordinate {
	seed := fmt.Sprintf("%.6f:%.6f:%s:%d", anchor.Lat, anchor.Lon, name, index)

	var h uint32
	for i := 0; i < len(seed); i++ {
		h = h*31 + uint32(seed[i])
	}

	bearing := float64(h%3600) / 10.0
	distance := float64(800 + h%2200)

	return offset(anchor, bearing, distance)
}

// offset computes the destination point from a start coordinate given a
// bearing in degrees and a distance in meters, on the same sphere as the
// Haversine distance.
func offset(from geo.Coordinate, bearingDeg, distanceMeters float64) geo.Coordinate {
	lat1 := from.Lat * math.Pi / 180
	lon1 := from.Lon * math.Pi / 180
	bearing := bearingDeg * math.Pi / 180
	angular := distanceMeters / geo.EarthRadiusMeters

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angular) +
		math.Cos(lat1)*math.Sin(angular)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(lat1),
		math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2),
	)

	return geo.Coordinate{
		Lat: lat2 * 180 / math.Pi,
		Lon: math.Mod(lon2*180/math.Pi+540, 360) - 180,
	}
}

// resolveCoordinate returns the stop's own coordinates when present,
// otherwise its pseudo-coordinate relative to the anchor.
func resolveCoordinate(anchor geo.Coordinate, stop item.Stop, index int) geo.Coordinate {
	if stop.Coordinates != nil {
		return *stop.Coordinates
	}
	return PseudoCoordinate(anchor, stop.Name, index)
}
