// Package notification provides the in-app notification log and the
// outbound notification/speech sink contracts.
package notification

import (
	"context"
	"errors"
	"time"
)

// Repository errors.
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// MaxRetained is the number of most-recent notifications kept per user.
// Older entries are dropped on append.
const MaxRetained = 50

// Type classifies a notification entry.
type Type string

const (
	// TypeLocation marks proximity-radar notifications.
	TypeLocation Type = "location"
	// TypeSystem marks scheduled reminders and other system events.
	TypeSystem Type = "system"
	// TypeInfo marks informational messages.
	TypeInfo Type = "info"
)

// Notification is a single entry in the append-only notification log.
type Notification struct {
	ID            string
	UserID        string
	Title         string
	Message       string
	Timestamp     time.Time
	Read          bool
	Type          Type
	RelatedItemID *string
}

// Sink delivers platform notifications. Delivery is best effort; there is
// no confirmation channel.
type Sink interface {
	Notify(ctx context.Context, title, body, dedupeKey string) error
}

// Speech delivers spoken-audio output. Fire-and-forget.
type Speech interface {
	Speak(ctx context.Context, text string) error
}
