package route

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/enrich"
	"github.com/wanderlist/wanderlist/internal/geocode"
	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/pkg/geo"
)

// Planner is one editing session over a single item's itinerary or road
// trip. Edits accumulate in the session and only become durable on Save.
// External lookup and generation calls run outside the session lock; their
// results are discarded if the session was closed meanwhile, so a slow
// response can never land in a planner opened later.
type Planner struct {
	mu     sync.Mutex
	closed bool

	mode Mode
	it   *item.Item

	stops       []item.Stop
	startName   string
	startCoord  *geo.Coordinate
	current     *geo.Coordinate
	currentName string

	items    *item.Service
	geocoder geocode.Provider
	enricher enrich.Provider
	logger   zerolog.Logger
}

// StopView is a stop plus the position used to render it: real coordinates
// when present, a pseudo-coordinate otherwise. Pseudo positions are never
// persisted.
type StopView struct {
	item.Stop
	DisplayCoordinate *geo.Coordinate `json:"displayCoordinate,omitempty"`
}

// State is a snapshot of the planning session for clients.
type State struct {
	ItemID           string          `json:"itemId"`
	Title            string          `json:"title"`
	Mode             Mode            `json:"mode"`
	LocationName     *string         `json:"locationName,omitempty"`
	Anchor           *geo.Coordinate `json:"anchor,omitempty"`
	StartLocation    string          `json:"startLocation,omitempty"`
	StartCoordinates *geo.Coordinate `json:"startCoordinates,omitempty"`
	CurrentLocation  string          `json:"currentLocation,omitempty"`
	Stops            []StopView      `json:"stops"`
}

func newPlanner(it *item.Item, mode Mode, items *item.Service, geocoder geocode.Provider, enricher enrich.Provider, logger zerolog.Logger) *Planner {
	p := &Planner{
		mode:     mode,
		it:       it,
		items:    items,
		geocoder: geocoder,
		enricher: enricher,
		logger:   logger.With().Str("item_id", it.ID).Str("mode", string(mode)).Logger(),
	}

	if mode == ModeRoadTrip {
		if rt := it.RoadTrip; rt != nil {
			p.startName = rt.StartLocation
			if rt.StartCoordinates != nil {
				p.startCoord = coordPtr(*rt.StartCoordinates)
			}
			p.stops = cloneStops(rt.Stops)
		}
	} else {
		p.stops = cloneStops(it.Itinerary)
	}
	return p
}

// Mode returns the session's planning mode.
func (p *Planner) Mode() Mode {
	return p.mode
}

// Snapshot returns the current session state with display positions
// resolved.
func (p *Planner) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := State{
		ItemID:          p.it.ID,
		Title:           p.it.Title,
		Mode:            p.mode,
		LocationName:    p.it.LocationName,
		StartLocation:   p.startName,
		CurrentLocation: p.currentName,
		Stops:           make([]StopView, 0, len(p.stops)),
	}
	if p.it.Coordinates != nil {
		st.Anchor = coordPtr(*p.it.Coordinates)
	}
	if p.startCoord != nil {
		st.StartCoordinates = coordPtr(*p.startCoord)
	}

	for i, s := range p.stops {
		view := StopView{Stop: s}
		if s.Coordinates != nil {
			view.DisplayCoordinate = coordPtr(*s.Coordinates)
		} else if p.it.Coordinates != nil {
			view.DisplayCoordinate = coordPtr(PseudoCoordinate(*p.it.Coordinates, s.Name, i))
		}
		st.Stops = append(st.Stops, view)
	}
	return st
}

// SetCurrentLocation records the device position used as the navigation
// origin. The position is reverse geocoded to a display name for the
// session snapshot; a name the geocoder cannot resolve stays empty and
// does not fail the update.
func (p *Planner) SetCurrentLocation(ctx context.Context, c geo.Coordinate) error {
	if err := geo.Validate(c); err != nil {
		return err
	}

	name, err := p.geocoder.Reverse(ctx, c)
	if err != nil {
		p.logger.Debug().Err(err).Msg("reverse geocoding device position failed")
		name = ""
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlannerClosed
	}
	p.current = coordPtr(c)
	p.currentName = name
	return nil
}

// AddStop appends a stop by name. The name is enriched with place details
// when the enrichment provider can help; otherwise a bare stop with only
// the given name is appended. Blank names are rejected.
func (p *Planner) AddStop(ctx context.Context, name string) (item.Stop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return item.Stop{}, ErrBlankStop
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return item.Stop{}, ErrPlannerClosed
	}
	location := p.locationContextLocked()
	p.mu.Unlock()

	stop := item.Stop{Name: name}
	if p.enricher != nil {
		if enriched, err := p.enricher.LookupStop(ctx, name, location); err == nil {
			stop = *enriched
			stop.Completed = false
		} else {
			p.logger.Debug().Err(err).Str("stop", name).Msg("stop enrichment unavailable, adding bare stop")
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return item.Stop{}, ErrPlannerClosed
	}
	p.stops = append(p.stops, stop)
	return stop, nil
}

// RemoveStop removes the stop at the given position.
func (p *Planner) RemoveStop(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlannerClosed
	}
	if index < 0 || index >= len(p.stops) {
		return ErrStopNotFound
	}
	p.stops = append(p.stops[:index], p.stops[index+1:]...)
	return nil
}

// MoveStop moves the stop at from to position to, shifting the rest.
func (p *Planner) MoveStop(from, to int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlannerClosed
	}
	if from < 0 || from >= len(p.stops) || to < 0 || to >= len(p.stops) {
		return ErrStopNotFound
	}
	if from == to {
		return nil
	}
	stop := p.stops[from]
	rest := append(p.stops[:from], p.stops[from+1:]...)
	p.stops = append(rest[:to], append([]item.Stop{stop}, rest[to:]...)...)
	return nil
}

// SetStopCompleted marks a sub-stop visited or not, independent of the
// parent item's completion.
func (p *Planner) SetStopCompleted(index int, completed bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlannerClosed
	}
	if index < 0 || index >= len(p.stops) {
		return ErrStopNotFound
	}
	p.stops[index].Completed = completed
	return nil
}

// SetStartLocation resolves a free-text start location and, on success,
// stores the provider's canonical name and coordinates. On failure the
// start point is left unchanged; operations requiring it stay blocked.
// Road-trip mode only.
func (p *Planner) SetStartLocation(ctx context.Context, query string) error {
	if p.mode != ModeRoadTrip {
		return ErrWrongMode
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrBlankStop
	}

	place, err := p.geocoder.Forward(ctx, query)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlannerClosed
	}
	p.startName = place.Name
	p.startCoord = coordPtr(place.Coordinate)
	return nil
}

// Regenerate replaces the whole itinerary with freshly generated stops for
// the item's location. Destination mode only. Replacing a non-empty
// sequence is irreversible, so it requires confirm unless empty.
func (p *Planner) Regenerate(ctx context.Context, confirm bool) error {
	if p.mode != ModeDestination {
		return ErrWrongMode
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlannerClosed
	}
	if p.it.LocationName == nil || strings.TrimSpace(*p.it.LocationName) == "" {
		p.mu.Unlock()
		return ErrNoLocation
	}
	if len(p.stops) > 0 && !confirm {
		p.mu.Unlock()
		return ErrConfirmRequired
	}
	location := *p.it.LocationName
	p.mu.Unlock()

	stops, err := p.enricher.GenerateItinerary(ctx, location)
	if err != nil {
		return err
	}

	return p.replaceStops(stops)
}

// SuggestStops replaces the road-trip stop list with generated waypoints
// between the start location and the destination. Road-trip mode only;
// both endpoints must be set, and the same confirm rule as Regenerate
// applies.
func (p *Planner) SuggestStops(ctx context.Context, confirm bool) error {
	if p.mode != ModeRoadTrip {
		return ErrWrongMode
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlannerClosed
	}
	if strings.TrimSpace(p.startName) == "" {
		p.mu.Unlock()
		return ErrStartUnresolved
	}
	if p.it.LocationName == nil || strings.TrimSpace(*p.it.LocationName) == "" {
		p.mu.Unlock()
		return ErrNoLocation
	}
	if len(p.stops) > 0 && !confirm {
		p.mu.Unlock()
		return ErrConfirmRequired
	}
	start, destination := p.startName, *p.it.LocationName
	p.mu.Unlock()

	stops, err := p.enricher.GenerateRoadTripStops(ctx, start, destination)
	if err != nil {
		return err
	}

	return p.replaceStops(stops)
}

// Optimize asks the enrichment provider for an efficient visiting order
// and reconciles the answer against the current stops, so a lossy response
// can reorder but never drop anything. Destination mode with at least two
// stops only.
func (p *Planner) Optimize(ctx context.Context) error {
	if p.mode != ModeDestination {
		return ErrWrongMode
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlannerClosed
	}
	if len(p.stops) < 2 {
		p.mu.Unlock()
		return ErrTooFewStops
	}
	location := p.locationContextLocked()
	names := make([]string, len(p.stops))
	for i, s := range p.stops {
		names[i] = s.Name
	}
	p.mu.Unlock()

	ordered, err := p.enricher.OptimizeOrder(ctx, location, names)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlannerClosed
	}
	p.stops = reconcileOrder(p.stops, ordered)
	return nil
}

// Stats computes leg-by-leg distances and the estimated duration for the
// current visiting order.
func (p *Planner) Stats() (*Stats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPlannerClosed
	}
	if p.it.Coordinates == nil {
		return nil, ErrNoAnchor
	}

	anchor := *p.it.Coordinates
	anchorName := p.it.Title
	if p.it.LocationName != nil && *p.it.LocationName != "" {
		anchorName = *p.it.LocationName
	}

	var start *routePoint
	if p.mode == ModeRoadTrip {
		if p.startCoord == nil {
			return nil, ErrStartUnresolved
		}
		start = &routePoint{name: p.startName, coord: *p.startCoord}
	}

	stats := computeStats(p.mode, anchor, anchorName, start, p.stops)
	return &stats, nil
}

// NavigationURL builds the external map deep link for the current route.
// The origin is the device position when known, otherwise the mode's start
// point. Stops without real coordinates are skipped rather than
// pseudo-filled.
func (p *Planner) NavigationURL() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return "", ErrPlannerClosed
	}
	if p.it.Coordinates == nil {
		return "", ErrNoAnchor
	}
	anchor := *p.it.Coordinates

	origin := anchor
	if p.mode == ModeRoadTrip {
		if p.startCoord == nil {
			return "", ErrStartUnresolved
		}
		origin = *p.startCoord
	}
	if p.current != nil {
		origin = *p.current
	}

	waypoints := make([]geo.Coordinate, 0, len(p.stops))
	for _, s := range p.stops {
		if s.Coordinates != nil {
			waypoints = append(waypoints, *s.Coordinates)
		}
	}

	return navigationURL(origin, anchor, waypoints), nil
}

// Save commits the session's sequence back to the owning item. This is the
// durability boundary: nothing earlier in the session has touched the
// store.
func (p *Planner) Save(ctx context.Context) (*item.Item, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPlannerClosed
	}

	updated := *p.it
	if p.mode == ModeRoadTrip {
		rt := &item.RoadTrip{
			StartLocation: p.startName,
			Stops:         cloneStops(p.stops),
		}
		if p.startCoord != nil {
			rt.StartCoordinates = coordPtr(*p.startCoord)
		}
		updated.RoadTrip = rt
	} else {
		updated.Itinerary = cloneStops(p.stops)
	}
	p.mu.Unlock()

	if err := p.items.Replace(ctx, &updated); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPlannerClosed
	}
	p.it = &updated
	return &updated, nil
}

// Close ends the session. In-flight external results observe the closed
// flag and are discarded.
func (p *Planner) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// Closed reports whether the session has ended.
func (p *Planner) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Planner) replaceStops(stops []item.Stop) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlannerClosed
	}
	p.stops = cloneStops(stops)
	return nil
}

// locationContextLocked returns the best location string for enrichment
// context. Caller holds p.mu.
func (p *Planner) locationContextLocked() string {
	if p.it.LocationName != nil && *p.it.LocationName != "" {
		return *p.it.LocationName
	}
	return p.it.Title
}

func cloneStops(stops []item.Stop) []item.Stop {
	if stops == nil {
		return nil
	}
	out := make([]item.Stop, len(stops))
	for i, s := range stops {
		out[i] = s
		if s.Coordinates != nil {
			out[i].Coordinates = coordPtr(*s.Coordinates)
		}
		if s.Images != nil {
			out[i].Images = append([]string(nil), s.Images...)
		}
	}
	return out
}
