package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlist/wanderlist/internal/api/models"
	"github.com/wanderlist/wanderlist/internal/api/response"
	"github.com/wanderlist/wanderlist/internal/notification"
)

// NotificationHandler handles notification center endpoints.
type NotificationHandler struct {
	service *notification.Service
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListNotifications handles GET /v1/me/notifications - newest first.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to list notifications")
		return
	}

	out := make([]models.Notification, 0, len(items))
	for _, n := range items {
		out = append(out, toNotificationModel(n))
	}
	response.JSON(w, r, http.StatusOK, models.NotificationList{Notifications: out})
}

// MarkRead handles POST /v1/me/notifications/{notificationId}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	notificationID := chi.URLParam(r, "notificationId")

	if err := h.service.MarkRead(r.Context(), userID, notificationID); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			response.NotFound(w, r, "notification not found")
			return
		}
		response.InternalError(w, r, "failed to mark notification read")
		return
	}

	response.NoContent(w, r)
}

// MarkAllRead handles POST /v1/me/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		response.InternalError(w, r, "failed to mark notifications read")
		return
	}

	response.NoContent(w, r)
}

// ClearNotifications handles DELETE /v1/me/notifications.
func (h *NotificationHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	if err := h.service.Clear(r.Context(), userID); err != nil {
		response.InternalError(w, r, "failed to clear notifications")
		return
	}

	response.NoContent(w, r)
}
