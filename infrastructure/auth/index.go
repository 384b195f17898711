package auth

import (
	"errors"
	"fmt"
	"time"

	"facegate.io/infrastructure/logger"
	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token used")

// TokenIssuer signs and validates HS256 session tokens.
type TokenIssuer struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

func NewTokenIssuer(signingKey string, issuer string, ttl time.Duration) (*TokenIssuer, error) {
	if signingKey == "" {
		return nil, errors.New("jwt signing key missing")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt ttl must be positive, got %s", ttl)
	}
	return &TokenIssuer{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

func (ti *TokenIssuer) GenerateAuthToken(claimsData ClaimsData) (*string, error) {
	issuedAt := ti.now()
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Email:     claimsData.Email,
		Role:      claimsData.Role,
		UserID:    claimsData.UserID,
		UserAgent: claimsData.UserAgent,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.issuer,
			Subject:   claimsData.Email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ti.ttl)),
		},
	}).SignedString(ti.signingKey)
	if err != nil {
		return nil, err
	}
	return &tokenString, nil
}

func (ti *TokenIssuer) DecodeAuthToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, fmt.Errorf("%w: invalid token signature used", ErrInvalidToken)
		}
		logger.Warning("error decoding jwt", logger.LoggerOptions{
			Key:  "error",
			Data: err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if ti.issuer != "" && !claims.VerifyIssuer(ti.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}
	return claims, nil
}
