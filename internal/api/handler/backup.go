package handler

import (
	"errors"
	"net/http"

	"github.com/wanderlist/wanderlist/internal/api/models"
	"github.com/wanderlist/wanderlist/internal/api/response"
	"github.com/wanderlist/wanderlist/internal/backup"
)

// BackupHandler handles cloud backup endpoints.
type BackupHandler struct {
	service *backup.Service
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(service *backup.Service) *BackupHandler {
	return &BackupHandler{service: service}
}

// RunBackup handles POST /v1/me/backups - snapshot the user's items.
func (h *BackupHandler) RunBackup(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	snap, err := h.service.Run(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "backup failed")
		return
	}

	response.Created(w, r, "", toSnapshotModel(snap, false))
}

// RestoreBackup handles GET /v1/me/backups/latest - return the most
// recent snapshot, items included.
func (h *BackupHandler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	snap, err := h.service.Restore(r.Context(), userID)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackup) {
			response.NotFound(w, r, "no backup exists for this user")
			return
		}
		response.InternalError(w, r, "restore failed")
		return
	}

	response.JSON(w, r, http.StatusOK, toSnapshotModel(snap, true))
}

func toSnapshotModel(snap *backup.Snapshot, includeItems bool) models.BackupSnapshot {
	m := models.BackupSnapshot{
		ID:        snap.ID,
		ItemCount: len(snap.Items),
		CreatedAt: models.Timestamp(snap.CreatedAt),
	}
	if includeItems {
		m.Items = toItemModels(snap.Items)
	}
	return m
}
