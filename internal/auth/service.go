package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// ErrInvalidDeviceKey indicates the presented device key does not match.
var ErrInvalidDeviceKey = errors.New("invalid device key")

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	// JWT issues and validates access tokens.
	JWT *JWTService

	// DeviceKey is the pre-shared key the device exchanges for tokens.
	DeviceKey string

	// UserID is the deployment's single user identity.
	UserID string

	// Logger for auth events.
	Logger zerolog.Logger
}

// Service exchanges the pre-shared device key for bearer tokens.
type Service struct {
	jwt       *JWTService
	deviceKey []byte
	userID    string
	logger    zerolog.Logger
}

// NewService creates an auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		jwt:       cfg.JWT,
		deviceKey: []byte(cfg.DeviceKey),
		userID:    cfg.UserID,
		logger:    cfg.Logger,
	}
}

// ExchangeDeviceKey validates the presented key in constant time and, on
// match, issues an access token for the deployment's user.
func (s *Service) ExchangeDeviceKey(key string) (string, time.Time, error) {
	if len(s.deviceKey) == 0 ||
		subtle.ConstantTimeCompare(s.deviceKey, []byte(key)) != 1 {
		s.logger.Warn().Msg("device key exchange rejected")
		return "", time.Time{}, ErrInvalidDeviceKey
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(s.userID)
	if err != nil {
		return "", time.Time{}, err
	}

	s.logger.Info().Str("user_id", s.userID).Msg("device key exchanged for access token")
	return token, expiresAt, nil
}

// Validate checks a bearer token and returns its claims.
func (s *Service) Validate(token string) (*Claims, error) {
	return s.jwt.ValidateAccessToken(token)
}
