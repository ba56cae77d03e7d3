package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wanderlist/wanderlist/internal/api/models"
	"github.com/wanderlist/wanderlist/internal/api/response"
	"github.com/wanderlist/wanderlist/internal/settings"
)

// SettingsHandler handles user settings endpoints.
type SettingsHandler struct {
	service *settings.Service
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service *settings.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings handles GET /v1/me/settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	s, err := h.service.Get(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load settings")
		return
	}

	response.JSON(w, r, http.StatusOK, toSettingsModel(s))
}

// UpdateSettings handles PUT /v1/me/settings - partial settings update.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.SettingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.service.Update(r.Context(), userID, settings.UpdateInput{
		ProximityRangeMeters: input.ProximityRangeMeters,
		SpeechEnabled:        input.SpeechEnabled,
	})
	if err != nil {
		if errors.Is(err, settings.ErrRangeOutOfBounds) {
			response.BadRequest(w, r, err.Error(), []models.FieldError{
				{Field: "proximityRangeMeters", Message: "must be between 100 and 100000 meters"},
			})
			return
		}
		response.InternalError(w, r, "failed to update settings")
		return
	}

	response.JSON(w, r, http.StatusOK, toSettingsModel(updated))
}

func toSettingsModel(s *settings.Settings) models.Settings {
	return models.Settings{
		ProximityRangeMeters: s.ProximityRangeMeters,
		SpeechEnabled:        s.SpeechEnabled,
		UpdatedAt:            models.Timestamp(s.UpdatedAt),
	}
}
