package radar

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/internal/notification"
	"github.com/wanderlist/wanderlist/pkg/geo"
)

// Radar errors.
var (
	// ErrAlreadyActive indicates the radar is already ON.
	ErrAlreadyActive = errors.New("radar already active")
	// ErrNotActive indicates the radar is OFF.
	ErrNotActive = errors.New("radar not active")
)

// ItemSource supplies the current item list. Read at sample time so edits
// made while the radar is ON take effect on the next fix.
type ItemSource interface {
	List(ctx context.Context, userID string, filter item.ListFilter) ([]*item.Item, error)
}

// RangeSource supplies the current proximity threshold in meters, also
// read at sample time.
type RangeSource interface {
	ProximityRange(ctx context.Context, userID string) float64
	SpeechEnabled(ctx context.Context, userID string) bool
}

// EventType classifies radar events surfaced to the client.
type EventType string

const (
	// EventProximity fires when an unvisited target comes within range.
	EventProximity EventType = "proximity"
	// EventStopped fires when the session ends, including a forced stop
	// on permission denial.
	EventStopped EventType = "stopped"
)

// Event is a transient radar event, the backend rendition of the client's
// toast.
type Event struct {
	Type           EventType
	ItemID         string
	Title          string
	Message        string
	DistanceMeters float64
	Forced         bool
}

// Config holds the collaborators for a radar session.
type Config struct {
	UserID     string
	Items      ItemSource
	Ranges     RangeSource
	Provider   Provider
	Permission PermissionGate
	Notifier   notification.Sink
	Speech     notification.Speech
	Log        *notification.Service
	Logger     zerolog.Logger

	// Events receives transient radar events. Optional.
	Events func(Event)

	// SubscribeOptions overrides the location stream options.
	SubscribeOptions *SubscribeOptions
}

// Radar is the per-user proximity radar session state machine. It has two
// states, OFF and ON; the notified-target set lives exactly as long as one
// ON period.
type Radar struct {
	cfg Config

	mu       sync.Mutex
	on       bool
	sub      Subscription
	notified map[string]struct{}
	lastFix  *Sample
}

// New creates a radar in the OFF state.
func New(cfg Config) *Radar {
	if cfg.Permission == nil {
		cfg.Permission = GrantAllPermissions{}
	}
	return &Radar{cfg: cfg}
}

// Start transitions OFF to ON: requests notification permission, clears
// the notified-target set, and begins the location subscription. A denied
// permission fails the transition outright; the radar stays OFF.
func (r *Radar) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.on {
		r.mu.Unlock()
		return ErrAlreadyActive
	}
	r.mu.Unlock()

	// Permission prompt is user-interactive; never hold the lock over it.
	if err := r.cfg.Permission.RequestNotificationPermission(ctx); err != nil {
		r.cfg.Logger.Warn().Err(err).Msg("radar start refused: notification permission denied")
		return fmt.Errorf("starting radar: %w", err)
	}

	opts := DefaultSubscribeOptions()
	if r.cfg.SubscribeOptions != nil {
		opts = *r.cfg.SubscribeOptions
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.on {
		return ErrAlreadyActive
	}

	sub, err := r.cfg.Provider.Subscribe(opts, r.handleSample, r.handleError)
	if err != nil {
		return fmt.Errorf("subscribing to location stream: %w", err)
	}

	r.on = true
	r.sub = sub
	r.notified = make(map[string]struct{})
	r.lastFix = nil

	r.cfg.Logger.Info().Str("user_id", r.cfg.UserID).Msg("radar session started")
	return nil
}

// Stop transitions ON to OFF: cancels the subscription and clears the
// last fix and the notified-target set. Idempotent.
func (r *Radar) Stop() {
	r.stop(false)
}

func (r *Radar) stop(forced bool) {
	r.mu.Lock()
	if !r.on {
		r.mu.Unlock()
		return
	}
	sub := r.sub
	r.on = false
	r.sub = nil
	r.notified = nil
	r.lastFix = nil
	r.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}

	r.cfg.Logger.Info().
		Str("user_id", r.cfg.UserID).
		Bool("forced", forced).
		Msg("radar session stopped")

	r.emit(Event{Type: EventStopped, Forced: forced})
}

// Active reports whether the radar is ON.
func (r *Radar) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.on
}

// LastFix returns the most recent location sample of the current session,
// or nil.
func (r *Radar) LastFix() *Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastFix == nil {
		return nil
	}
	cpy := *r.lastFix
	return &cpy
}

// NotifiedCount returns the size of the notified-target set.
func (r *Radar) NotifiedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notified)
}

// handleSample evaluates one location fix against all active targets.
// Items and threshold are read fresh on every call.
func (r *Radar) handleSample(s Sample) {
	r.mu.Lock()
	if !r.on {
		// A fix that was in flight when the session stopped. Drop it so
		// no notification fires after cancellation.
		r.mu.Unlock()
		return
	}
	fix := s
	r.lastFix = &fix
	r.mu.Unlock()

	ctx := context.Background()

	items, err := r.cfg.Items.List(ctx, r.cfg.UserID, item.ListFilter{})
	if err != nil {
		r.cfg.Logger.Error().Err(err).Msg("radar failed to read item list")
		return
	}

	threshold := r.cfg.Ranges.ProximityRange(ctx, r.cfg.UserID)

	for _, it := range items {
		if it.Completed || it.Coordinates == nil {
			continue
		}

		d := geo.Distance(s.Coordinate, *it.Coordinates)
		if d >= threshold {
			continue
		}

		if !r.claimTarget(it.ID) {
			continue
		}

		r.announce(ctx, it, d)
	}
}

// claimTarget adds the item to the notified-target set. Returns false if
// the item was already claimed this session or the session ended.
func (r *Radar) claimTarget(itemID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.on {
		return false
	}
	if _, seen := r.notified[itemID]; seen {
		return false
	}
	r.notified[itemID] = struct{}{}
	return true
}

// announce fires the full side-effect bundle for one in-range target:
// platform notification, spoken message, log entry, and transient event.
func (r *Radar) announce(ctx context.Context, it *item.Item, distanceMeters float64) {
	distance := geo.FormatDistance(distanceMeters)
	title := "You're near " + it.Title
	body := fmt.Sprintf("%s is about %s away.", it.Title, distance)

	if err := r.cfg.Notifier.Notify(ctx, title, body, "radar:"+it.ID); err != nil {
		r.cfg.Logger.Warn().Err(err).Str("item_id", it.ID).Msg("notification delivery failed")
	}

	if r.cfg.Speech != nil && r.cfg.Ranges.SpeechEnabled(ctx, r.cfg.UserID) {
		text := speechText(it, distance)
		if err := r.cfg.Speech.Speak(ctx, text); err != nil {
			r.cfg.Logger.Warn().Err(err).Str("item_id", it.ID).Msg("speech delivery failed")
		}
	}

	if r.cfg.Log != nil {
		itemID := it.ID
		if _, err := r.cfg.Log.Record(ctx, r.cfg.UserID, notification.TypeLocation, title, body, &itemID); err != nil {
			r.cfg.Logger.Warn().Err(err).Str("item_id", it.ID).Msg("notification log append failed")
		}
	}

	r.emit(Event{
		Type:           EventProximity,
		ItemID:         it.ID,
		Title:          title,
		Message:        body,
		DistanceMeters: distanceMeters,
	})

	r.cfg.Logger.Info().
		Str("item_id", it.ID).
		Float64("distance_meters", distanceMeters).
		Msg("proximity notification fired")
}

// handleError applies the error taxonomy: permission denial forces the
// session OFF; transient errors are logged and the subscription keeps
// running.
func (r *Radar) handleError(code ErrorCode) {
	if code.Fatal() {
		r.cfg.Logger.Warn().
			Str("code", string(code)).
			Msg("location permission revoked, forcing radar off")
		r.stop(true)
		return
	}

	r.cfg.Logger.Debug().
		Str("code", string(code)).
		Msg("transient location error, subscription continues")
}

func (r *Radar) emit(ev Event) {
	if r.cfg.Events != nil {
		r.cfg.Events(ev)
	}
}

// speechText assembles the spoken message: title, qualitative distance,
// then the item description.
func speechText(it *item.Item, distance string) string {
	text := fmt.Sprintf("You are close to %s, about %s away.", it.Title, distance)
	if it.Description != "" {
		text += " " + it.Description
	}
	return text
}
