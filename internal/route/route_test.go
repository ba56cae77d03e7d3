package route

import (
	"net/url"
	"strings"
	"testing"

	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/pkg/geo"
)

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing %q: %v", raw, err)
	}
	return u.Query()
}

func countPipes(s string) int {
	return strings.Count(s, "|")
}

func TestPseudoCoordinate_Deterministic(t *testing.T) {
	anchor := geo.Coordinate{Lat: 48.8584, Lon: 2.2945}

	a := PseudoCoordinate(anchor, "Eiffel Tower", 0)
	b := PseudoCoordinate(anchor, "Eiffel Tower", 0)

	if a != b {
		t.Fatalf("same inputs produced different coordinates: %+v vs %+v", a, b)
	}
}

func TestPseudoCoordinate_InputsChangeOutput(t *testing.T) {
	anchor := geo.Coordinate{Lat: 48.8584, Lon: 2.2945}
	base := PseudoCoordinate(anchor, "Eiffel Tower", 0)

	if PseudoCoordinate(anchor, "Louvre", 0) == base {
		t.Error("different name should move the pseudo-coordinate")
	}
	if PseudoCoordinate(anchor, "Eiffel Tower", 1) == base {
		t.Error("different index should move the pseudo-coordinate")
	}
	if PseudoCoordinate(geo.Coordinate{Lat: 48.86, Lon: 2.2945}, "Eiffel Tower", 0) == base {
		t.Error("different anchor should move the pseudo-coordinate")
	}
}

func TestPseudoCoordinate_BoundedOffset(t *testing.T) {
	anchor := geo.Coordinate{Lat: 35.0116, Lon: 135.7681}

	names := []string{"Fushimi Inari", "Kinkaku-ji", "Gion", "Arashiyama", "Nijo Castle"}
	for i, name := range names {
		c := PseudoCoordinate(anchor, name, i)
		d := geo.Distance(anchor, c)
		if d < 790 || d > 3010 {
			t.Errorf("pseudo offset for %q out of bounds: %.0fm", name, d)
		}
		if err := geo.Validate(c); err != nil {
			t.Errorf("pseudo coordinate for %q invalid: %v", name, err)
		}
	}
}

func TestReconcileOrder_PreservesDroppedStops(t *testing.T) {
	stops := []item.Stop{{Name: "A"}, {Name: "B"}, {Name: "C"}}

	out := reconcileOrder(stops, []string{"C", "A"})

	want := []string{"C", "A", "B"}
	if len(out) != len(want) {
		t.Fatalf("expected %d stops, got %d", len(want), len(out))
	}
	for i, name := range want {
		if out[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, out[i].Name)
		}
	}
}

func TestReconcileOrder_IgnoresInventedNames(t *testing.T) {
	stops := []item.Stop{{Name: "A"}, {Name: "B"}}

	out := reconcileOrder(stops, []string{"Z", "B", "A", "B"})

	want := []string{"B", "A"}
	if len(out) != len(want) {
		t.Fatalf("expected %d stops, got %d", len(want), len(out))
	}
	for i, name := range want {
		if out[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, out[i].Name)
		}
	}
}

func TestComputeStats_RoadTripWalk(t *testing.T) {
	anchor := geo.Coordinate{Lat: 0, Lon: 2}
	start := &routePoint{name: "Start", coord: geo.Coordinate{Lat: 0, Lon: 0}}
	stops := []item.Stop{{Name: "Mid", Coordinates: &geo.Coordinate{Lat: 0, Lon: 1}}}

	stats := computeStats(ModeRoadTrip, anchor, "End", start, stops)

	// Two one-degree equatorial legs, ~111,195 m each.
	expected := 2 * 111195.0
	if diff := stats.TotalDistanceMeters - expected; diff > expected*0.01 || diff < -expected*0.01 {
		t.Errorf("expected ~%.0fm total, got %.0fm", expected, stats.TotalDistanceMeters)
	}
	if len(stats.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(stats.Legs))
	}
	if stats.Legs[0].From != "Start" || stats.Legs[1].To != "End" {
		t.Errorf("unexpected leg endpoints: %+v", stats.Legs)
	}
	if stats.GeometryPolyline == "" {
		t.Error("expected encoded geometry")
	}
}

func TestComputeStats_DestinationStartsAtAnchor(t *testing.T) {
	anchor := geo.Coordinate{Lat: 0, Lon: 0}
	stops := []item.Stop{{Name: "First", Coordinates: &geo.Coordinate{Lat: 0, Lon: 1}}}

	stats := computeStats(ModeDestination, anchor, "City", nil, stops)

	if len(stats.Legs) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(stats.Legs))
	}
	if stats.Legs[0].From != "City" || stats.Legs[0].To != "First" {
		t.Errorf("unexpected leg: %+v", stats.Legs[0])
	}
}

func TestComputeStats_SpeedsDifferByMode(t *testing.T) {
	anchor := geo.Coordinate{Lat: 0, Lon: 1}
	stops := []item.Stop{{Name: "S", Coordinates: &geo.Coordinate{Lat: 0, Lon: 0.5}}}
	start := &routePoint{name: "Start", coord: geo.Coordinate{Lat: 0, Lon: 0}}

	walk := computeStats(ModeDestination, anchor, "X", nil, stops)
	drive := computeStats(ModeRoadTrip, anchor, "X", start, stops)

	if walk.EstimatedMinutes <= drive.EstimatedMinutes {
		t.Errorf("walking estimate (%d min) should exceed driving estimate (%d min)",
			walk.EstimatedMinutes, drive.EstimatedMinutes)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes  int
		expected string
	}{
		{0, "< 1 min"},
		{1, "1 min"},
		{45, "45 min"},
		{60, "1 hr"},
		{75, "1 hr 15 min"},
		{120, "2 hr"},
		{135, "2 hr 15 min"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.expected {
			t.Errorf("FormatDuration(%d) = %q, expected %q", tt.minutes, got, tt.expected)
		}
	}
}

func TestNavigationURL_CapsWaypoints(t *testing.T) {
	origin := geo.Coordinate{Lat: 1, Lon: 1}
	dest := geo.Coordinate{Lat: 2, Lon: 2}

	waypoints := make([]geo.Coordinate, 12)
	for i := range waypoints {
		waypoints[i] = geo.Coordinate{Lat: float64(i), Lon: float64(i)}
	}

	u := navigationURL(origin, dest, waypoints)

	parsed := mustParseQuery(t, u)
	if got := parsed.Get("travelmode"); got != "driving" {
		t.Errorf("expected travelmode=driving, got %q", got)
	}
	wp := parsed.Get("waypoints")
	if count := 1 + countPipes(wp); count != maxNavigationWaypoints {
		t.Errorf("expected %d waypoints, got %d (%q)", maxNavigationWaypoints, count, wp)
	}
}

func TestNavigationURL_NoWaypoints(t *testing.T) {
	u := navigationURL(geo.Coordinate{Lat: 1, Lon: 1}, geo.Coordinate{Lat: 2, Lon: 2}, nil)

	parsed := mustParseQuery(t, u)
	if parsed.Has("waypoints") {
		t.Errorf("expected no waypoints param, got %q", parsed.Get("waypoints"))
	}
	if parsed.Get("origin") != "1.000000,1.000000" {
		t.Errorf("unexpected origin %q", parsed.Get("origin"))
	}
}
