package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", "facegate", time.Hour)
	require.NoError(t, err)

	token, err := issuer.GenerateAuthToken(ClaimsData{Email: "a@x.com", Role: "student", UserID: "01H"})
	require.NoError(t, err)

	claims, err := issuer.DecodeAuthToken(*token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "01H", claims.UserID)
	assert.Equal(t, "facegate", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestDecodeRejectsForeignTokens(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", "facegate", time.Hour)
	require.NoError(t, err)

	otherKey, err := NewTokenIssuer("other", "facegate", time.Hour)
	require.NoError(t, err)
	forged, err := otherKey.GenerateAuthToken(ClaimsData{Email: "a@x.com", Role: "admin"})
	require.NoError(t, err)
	_, err = issuer.DecodeAuthToken(*forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherIssuer, err := NewTokenIssuer("secret", "someone-else", time.Hour)
	require.NoError(t, err)
	foreign, err := otherIssuer.GenerateAuthToken(ClaimsData{Email: "a@x.com", Role: "admin"})
	require.NoError(t, err)
	_, err = issuer.DecodeAuthToken(*foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.DecodeAuthToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsExpiredAndNoneAlg(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", "facegate", time.Hour)
	require.NoError(t, err)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	expired, err := issuer.GenerateAuthToken(ClaimsData{Email: "a@x.com", Role: "hr"})
	require.NoError(t, err)
	_, err = issuer.DecodeAuthToken(*expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, AuthClaims{Email: "a@x.com", Role: "admin"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.DecodeAuthToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenIssuerValidation(t *testing.T) {
	_, err := NewTokenIssuer("", "facegate", time.Hour)
	assert.Error(t, err)
	_, err = NewTokenIssuer("secret", "facegate", 0)
	assert.Error(t, err)
}
