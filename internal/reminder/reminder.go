// Package reminder implements the twice-daily nudge: at most one morning
// and one evening reminder per calendar day, each picking a random
// incomplete item.
package reminder

import (
	"context"
	"time"
)

// Slot identifies one of the two daily reminder windows.
type Slot string

const (
	SlotMorning Slot = "am"
	SlotEvening Slot = "pm"
)

// Reminder windows in local time. A check anywhere inside a window may
// fire that window's reminder once per day.
const (
	morningStartHour = 9
	morningEndHour   = 12 // exclusive
	eveningStartHour = 18
	eveningEndHour   = 21 // exclusive
)

// SlotFor returns the reminder slot covering t, if any.
func SlotFor(t time.Time) (Slot, bool) {
	switch h := t.Hour(); {
	case h >= morningStartHour && h < morningEndHour:
		return SlotMorning, true
	case h >= eveningStartHour && h < eveningEndHour:
		return SlotEvening, true
	default:
		return "", false
	}
}

// DateKey renders t's calendar date for marker scoping.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MarkerStore records which reminder slots have fired. TryMark atomically
// claims a (user, date, slot) marker; it returns false when the marker was
// already set, which makes the reminder idempotent per day per slot.
type MarkerStore interface {
	TryMark(ctx context.Context, userID, date string, slot Slot) (bool, error)
}
