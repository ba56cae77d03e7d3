package reminder

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/internal/notification"
)

// ItemSource provides the user's items. Satisfied by item.Service.
type ItemSource interface {
	List(ctx context.Context, userID string, filter item.ListFilter) ([]*item.Item, error)
}

// CheckerConfig holds dependencies for the reminder checker.
type CheckerConfig struct {
	Items    ItemSource
	Markers  MarkerStore
	Notifier notification.Sink
	Log      *notification.Service
	Logger   zerolog.Logger

	// Now overrides the clock in tests.
	Now func() time.Time

	// Pick overrides the random index choice in tests. Given n > 0 it
	// must return a value in [0, n).
	Pick func(n int) int
}

// Checker evaluates the reminder windows on each tick and fires at most
// one reminder per window per calendar day.
type Checker struct {
	items    ItemSource
	markers  MarkerStore
	notifier notification.Sink
	log      *notification.Service
	logger   zerolog.Logger
	now      func() time.Time
	pick     func(n int) int
}

// NewChecker creates a reminder checker.
func NewChecker(cfg CheckerConfig) *Checker {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	pick := cfg.Pick
	if pick == nil {
		pick = rand.Intn
	}
	return &Checker{
		items:    cfg.Items,
		markers:  cfg.Markers,
		notifier: cfg.Notifier,
		log:      cfg.Log,
		logger:   cfg.Logger,
		now:      now,
		pick:     pick,
	}
}

// Check runs one reminder evaluation for the user. Outside both windows it
// is a no-op. Inside a window it fires once per day: the marker is claimed
// before the notification, so a missed delivery is not retried.
func (c *Checker) Check(ctx context.Context, userID string) error {
	now := c.now()
	slot, ok := SlotFor(now)
	if !ok {
		return nil
	}

	incomplete := false
	items, err := c.items.List(ctx, userID, item.ListFilter{Completed: &incomplete})
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	claimed, err := c.markers.TryMark(ctx, userID, DateKey(now), slot)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	target := items[c.pick(len(items))]
	title, message := reminderText(slot, target)

	if err := c.notifier.Notify(ctx, title, message, "reminder:"+DateKey(now)+":"+string(slot)); err != nil {
		c.logger.Warn().Err(err).Str("slot", string(slot)).Msg("reminder notification failed")
	}

	if c.log != nil {
		if _, err := c.log.Record(ctx, userID, notification.TypeSystem, title, message, &target.ID); err != nil {
			c.logger.Warn().Err(err).Msg("recording reminder notification failed")
		}
	}

	c.logger.Info().
		Str("user_id", userID).
		Str("slot", string(slot)).
		Str("item_id", target.ID).
		Msg("daily reminder sent")
	return nil
}

func reminderText(slot Slot, target *item.Item) (string, string) {
	if slot == SlotMorning {
		return "Morning inspiration", fmt.Sprintf("How about working toward %q today?", target.Title)
	}
	return "Evening check-in", fmt.Sprintf("Still dreaming of %q? Plan your next step.", target.Title)
}
