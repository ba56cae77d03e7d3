package notification

import "context"

// Repository defines the interface for notification log persistence.
type Repository interface {
	// Append adds a notification and trims the log to MaxRetained entries.
	Append(ctx context.Context, n *Notification) error

	// List retrieves a user's notifications, newest first.
	List(ctx context.Context, userID string) ([]*Notification, error)

	// MarkRead marks a single notification as read.
	MarkRead(ctx context.Context, userID, notificationID string) error

	// MarkAllRead marks all of a user's notifications as read.
	MarkAllRead(ctx context.Context, userID string) error

	// Clear removes all of a user's notifications.
	Clear(ctx context.Context, userID string) error
}
