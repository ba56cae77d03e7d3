package models

// Settings is the API representation of a user's settings.
type Settings struct {
	ProximityRangeMeters float64   `json:"proximityRangeMeters"`
	SpeechEnabled        bool      `json:"speechEnabled"`
	UpdatedAt            Timestamp `json:"updatedAt"`
}

// SettingsUpdateRequest is the request body for a partial settings
// update. Nil fields are left unchanged.
type SettingsUpdateRequest struct {
	ProximityRangeMeters *float64 `json:"proximityRangeMeters,omitempty"`
	SpeechEnabled        *bool    `json:"speechEnabled,omitempty"`
}
