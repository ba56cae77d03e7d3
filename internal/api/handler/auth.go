package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wanderlist/wanderlist/internal/api/models"
	"github.com/wanderlist/wanderlist/internal/api/response"
	"github.com/wanderlist/wanderlist/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// ExchangeToken handles POST /v1/auth/token - device-key token exchange.
func (h *AuthHandler) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	var input models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.DeviceKey == "" {
		response.BadRequest(w, r, "deviceKey is required", []models.FieldError{
			{Field: "deviceKey", Message: "is required"},
		})
		return
	}

	token, expiresAt, err := h.service.ExchangeDeviceKey(input.DeviceKey)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidDeviceKey) {
			response.Unauthorized(w, r, "invalid device key")
			return
		}
		response.InternalError(w, r, "token exchange failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   models.Timestamp(expiresAt),
	})
}
