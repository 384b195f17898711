package auth_usecases

import (
	"strings"

	"facegate.io/infrastructure/auth"
)

// UserAuthResult represents the result of user authentication
type UserAuthResult struct {
	IsAuthenticated bool
	Claims          *auth.AuthClaims
	ErrorMessage    string
}

// IsUserSignedIn validates a bearer token against the issuer.
func (as *AuthService) IsUserSignedIn(authorization string) UserAuthResult {
	result := UserAuthResult{}

	token, found := strings.CutPrefix(strings.TrimSpace(authorization), "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		result.ErrorMessage = "missing auth token"
		return result
	}

	claims, err := as.issuer.DecodeAuthToken(strings.TrimSpace(token))
	if err != nil {
		result.ErrorMessage = "this session has expired"
		return result
	}
	if claims.Email == "" {
		result.ErrorMessage = "unauthorised access"
		return result
	}

	result.IsAuthenticated = true
	result.Claims = claims
	return result
}
