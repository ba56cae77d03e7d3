package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service provides notification log operations.
type Service struct {
	repo Repository
}

// NewService creates a new notification service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends a new notification to the log.
func (s *Service) Record(ctx context.Context, userID string, typ Type, title, message string, relatedItemID *string) (*Notification, error) {
	n := &Notification{
		ID:            "ntf_" + uuid.New().String()[:22],
		UserID:        userID,
		Title:         title,
		Message:       message,
		Timestamp:     time.Now(),
		Type:          typ,
		RelatedItemID: relatedItemID,
	}

	if err := s.repo.Append(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List retrieves a user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*Notification, error) {
	return s.repo.List(ctx, userID)
}

// MarkRead marks a single notification as read.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead marks all of a user's notifications as read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Clear removes all of a user's notifications.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
