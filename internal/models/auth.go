package models

import "github.com/golang-jwt/jwt/v5"

// TokenRequest is the client-credentials payload for /auth/token.
type TokenRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenClaims are the JWT claims attached to authenticated requests.
type TokenClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}
