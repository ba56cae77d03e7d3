package models

// Notification is the API representation of a notification center entry.
type Notification struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Timestamp     Timestamp `json:"timestamp"`
	Read          bool      `json:"read"`
	Type          string    `json:"type"`
	RelatedItemID *string   `json:"relatedItemId,omitempty"`
}

// NotificationList is the list response for notifications, newest first.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
}
