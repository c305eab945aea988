package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  uuid.UUID
	IsAdmin bool
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to portal clients. The
// location and its review state are never embedded; they are resolved per
// request so approval changes apply without a new login.
type AccessTokenClaims struct {
	UserID  uuid.UUID `json:"user_id"`
	IsAdmin bool      `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}
