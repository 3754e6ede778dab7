package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a console token.
type AccessTokenPayload struct {
	UserID  string
	StoreID uuid.UUID
	Role    string
	JTI     string
}

// AccessTokenClaims represents the typed JWT the storefront console presents.
// StoreID scopes every catalog operation the holder may perform.
type AccessTokenClaims struct {
	UserID  string    `json:"user_id"`
	StoreID uuid.UUID `json:"store_id"`
	Role    string    `json:"role"`
	jwt.RegisteredClaims
}
