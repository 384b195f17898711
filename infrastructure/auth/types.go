package auth

import "github.com/golang-jwt/jwt/v4"

type ClaimsData struct {
	Email     string
	Role      string
	UserID    string
	UserAgent string
}

// AuthClaims is the signed identity carried by a session token.
type AuthClaims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	UserID    string `json:"userID,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	jwt.RegisteredClaims
}
