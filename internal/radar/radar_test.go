package radar

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/internal/notification"
	"github.com/wanderlist/wanderlist/pkg/geo"
)

// fakeItems is an ItemSource backed by a mutable slice, so tests can edit
// the list mid-session.
type fakeItems struct {
	mu    sync.Mutex
	items []*item.Item
}

func (f *fakeItems) List(_ context.Context, _ string, _ item.ListFilter) ([]*item.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*item.Item(nil), f.items...), nil
}

func (f *fakeItems) set(items []*item.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
}

// fakeRanges is a RangeSource with a mutable threshold.
type fakeRanges struct {
	mu     sync.Mutex
	meters float64
	speech bool
}

func (f *fakeRanges) ProximityRange(context.Context, string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meters
}

func (f *fakeRanges) SpeechEnabled(context.Context, string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.speech
}

func (f *fakeRanges) setRange(meters float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meters = meters
}

// countingSink records delivered notifications.
type countingSink struct {
	mu    sync.Mutex
	calls []string
}

func (c *countingSink) Notify(_ context.Context, _, _, dedupeKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, dedupeKey)
	return nil
}

func (c *countingSink) Speak(context.Context, string) error { return nil }

func (c *countingSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// denyPermission is a PermissionGate that always refuses.
type denyPermission struct{}

func (denyPermission) RequestNotificationPermission(context.Context) error {
	return ErrPermissionDenied
}

func targetItem(id string, lat, lon float64) *item.Item {
	return &item.Item{
		ID:          id,
		UserID:      "usr_1",
		Title:       "Target " + id,
		Coordinates: &geo.Coordinate{Lat: lat, Lon: lon},
	}
}

func newTestRadar(items ItemSource, ranges RangeSource, sink *countingSink, provider Provider) *Radar {
	return New(Config{
		UserID:   "usr_1",
		Items:    items,
		Ranges:   ranges,
		Provider: provider,
		Notifier: sink,
		Speech:   sink,
		Log:      notification.NewService(notification.NewInMemoryRepository()),
		Logger:   zerolog.Nop(),
	})
}

func sample(lat, lon float64) Sample {
	return Sample{Coordinate: geo.Coordinate{Lat: lat, Lon: lon}, At: time.Now()}
}

func TestRadar_NotifiesAtMostOncePerSession(t *testing.T) {
	items := &fakeItems{items: []*item.Item{targetItem("itm_a", 10, 10)}}
	ranges := &fakeRanges{meters: 2000}
	sink := &countingSink{}
	provider := NewPushProvider()
	r := newTestRadar(items, ranges, sink, provider)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	// ~15.7m away, well inside the 2000m threshold.
	provider.Push(sample(10.0001, 10.0001))
	if got := sink.count(); got != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", got)
	}

	// Repeated in-range samples must not re-notify.
	provider.Push(sample(10.0001, 10.0001))
	provider.Push(sample(10.0002, 10.0001))
	if got := sink.count(); got != 1 {
		t.Fatalf("expected still 1 notification after revisits, got %d", got)
	}
	if r.NotifiedCount() != 1 {
		t.Errorf("expected 1 notified target, got %d", r.NotifiedCount())
	}
}

func TestRadar_ToggleClearsNotifiedSet(t *testing.T) {
	items := &fakeItems{items: []*item.Item{targetItem("itm_a", 10, 10)}}
	ranges := &fakeRanges{meters: 2000}
	sink := &countingSink{}
	provider := NewPushProvider()
	r := newTestRadar(items, ranges, sink, provider)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	provider.Push(sample(10.0001, 10.0001))
	r.Stop()

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	provider.Push(sample(10.0001, 10.0001))

	if got := sink.count(); got != 2 {
		t.Errorf("expected a fresh notification after toggle, got %d total", got)
	}
}

func TestRadar_ThresholdChangeAppliesMidSession(t *testing.T) {
	// Item ~43km from the sample point: outside 2000m, inside 50000m.
	items := &fakeItems{items: []*item.Item{targetItem("itm_far", 10.4, 10.1)}}
	ranges := &fakeRanges{meters: 2000}
	sink := &countingSink{}
	provider := NewPushProvider()
	r := newTestRadar(items, ranges, sink, provider)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	provider.Push(sample(10, 10))
	if got := sink.count(); got != 0 {
		t.Fatalf("expected no notification outside range, got %d", got)
	}

	ranges.setRange(50000)
	provider.Push(sample(10, 10))
	if got := sink.count(); got != 1 {
		t.Errorf("expected notification after range widened, got %d", got)
	}
}

func TestRadar_ItemListReadAtSampleTime(t *testing.T) {
	items := &fakeItems{}
	ranges := &fakeRanges{meters: 2000}
	sink := &countingSink{}
	provider := NewPushProvider()
	r := newTestRadar(items, ranges, sink, provider)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	provider.Push(sample(10, 10))
	if got := sink.count(); got != 0 {
		t.Fatalf("no items yet, expected 0 notifications, got %d", got)
	}

	// Add an item while the session is running.
	items.set([]*item.Item{targetItem("itm_new", 10, 10)})
	provider.Push(sample(10, 10))
	if got := sink.count(); got != 1 {
		t.Errorf("expected notification for item added mid-session, got %d", got)
	}
}

func TestRadar_SkipsCompletedAndUngeotagged(t *testing.T) {
	done := targetItem("itm_done", 10, 10)
	done.Completed = true
	noCoords := &item.Item{ID: "itm_nc", UserID: "usr_1", Title: "No coords"}

	items := &fakeItems{items: []*item.Item{done, noCoords}}
	ranges := &fakeRanges{meters: 2000}
	sink := &countingSink{}
	provider := NewPushProvider()
	r := newTestRadar(items, ranges, sink, provider)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	provider.Push(sample(10, 10))
	if got := sink.count(); got != 0 {
		t.Errorf("completed/ungeotagged items must not notify, got %d", got)
	}
}

func TestRadar_PermissionDenialFailsStart(t *testing.T) {
	items := &fakeItems{}
	ranges := &fakeRanges{meters: 2000}
	sink := &countingSink{}
	provider := NewPushProvider()

	r := New(Config{
		UserID:     "usr_1",
		Items:      items,
		Ranges:     ranges,
		Provider:   provider,
		Permission: denyPermission{},
		Notifier:   sink,
		Logger:     zerolog.Nop(),
	})

	err := r.Start(context.Background())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if r.Active() {
		t.Error("radar must remain OFF after a denied permission")
	}
}

func TestRadar_FatalLocationErrorForcesOff(t *testing.T) {
	items := &fakeItems{items: []*item.Item{targetItem("itm_a", 10, 10)}}
	ranges := &fakeRanges{meters: 2000}
	sink := &countingSink{}
	provider := NewPushProvider()

	var events []Event
	var mu sync.Mutex
	r := New(Config{
		UserID:   "usr_1",
		Items:    items,
		Ranges:   ranges,
		Provider: provider,
		Notifier: sink,
		Logger:   zerolog.Nop(),
		Events: func(ev Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	})

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	provider.PushError(CodePermissionDenied)
	if r.Active() {
		t.Fatal("expected radar forced OFF on permission-denied error")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 || events[0].Type != EventStopped || !events[0].Forced {
		t.Errorf("expected a forced stop event, got %+v", events)
	}
}

func TestRadar_TransientErrorKeepsSessionAlive(t *testing.T) {
	items := &fakeItems{items: []*item.Item{targetItem("itm_a", 10, 10)}}
	ranges := &fakeRanges{meters: 2000}
	sink := &countingSink{}
	provider := NewPushProvider()
	r := newTestRadar(items, ranges, sink, provider)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	provider.PushError(CodeTimeout)
	provider.PushError(CodePositionUnavailable)
	if !r.Active() {
		t.Fatal("transient errors must not stop the session")
	}

	// The subscription recovers and the next fix still works.
	provider.Push(sample(10.0001, 10.0001))
	if got := sink.count(); got != 1 {
		t.Errorf("expected notification after recovery, got %d", got)
	}
}

func TestRadar_NoSamplesProcessedAfterStop(t *testing.T) {
	items := &fakeItems{items: []*item.Item{targetItem("itm_a", 10, 10)}}
	ranges := &fakeRanges{meters: 2000}
	sink := &countingSink{}
	provider := NewPushProvider()
	r := newTestRadar(items, ranges, sink, provider)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	r.Stop()

	provider.Push(sample(10.0001, 10.0001))
	if got := sink.count(); got != 0 {
		t.Errorf("no notification may fire after cancellation, got %d", got)
	}
	if r.LastFix() != nil {
		t.Error("stop must clear the last known location")
	}
}

func TestManager_RoutesSamplesPerUser(t *testing.T) {
	items := &fakeItems{items: []*item.Item{targetItem("itm_a", 10, 10)}}
	ranges := &fakeRanges{meters: 2000}
	sink := &countingSink{}

	m := NewManager(ManagerConfig{
		Items:    items,
		Ranges:   ranges,
		Notifier: sink,
		Speech:   sink,
		Log:      notification.NewService(notification.NewInMemoryRepository()),
		Logger:   zerolog.Nop(),
	})

	if err := m.Push("usr_1", sample(10, 10)); !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive before start, got %v", err)
	}

	if err := m.Start(context.Background(), "usr_1", nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Start(context.Background(), "usr_1", nil); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("expected ErrAlreadyActive, got %v", err)
	}

	if err := m.Push("usr_1", sample(10.0001, 10.0001)); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got := sink.count(); got != 1 {
		t.Errorf("expected 1 notification, got %d", got)
	}

	status := m.Status("usr_1")
	if !status.Active || status.NotifiedCount != 1 || status.LastFix == nil {
		t.Errorf("unexpected status: %+v", status)
	}

	m.Stop("usr_1")
	if m.Status("usr_1").Active {
		t.Error("expected inactive after stop")
	}
}
