package models

// TokenRequest is the request body for the device-key token exchange.
type TokenRequest struct {
	DeviceKey string `json:"deviceKey"`
}

// TokenResponse carries a minted access token.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   Timestamp `json:"expiresAt"`
}
