package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := map[Kind]int{
		InputError:             http.StatusBadRequest,
		InvalidImage:           http.StatusBadRequest,
		DuplicateIdentity:      http.StatusBadRequest,
		CredentialMismatch:     http.StatusUnauthorized,
		FaceVerificationFailed: http.StatusUnauthorized,
		Internal:               http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, New(kind, "m", nil).StatusCode(), kind)
	}
}

func TestIsKindSeesThroughWrapping(t *testing.T) {
	cause := errors.New("disk on fire")
	err := fmt.Errorf("register: %w", New(Internal, "could not persist user", cause))

	assert.True(t, IsKind(err, Internal))
	assert.False(t, IsKind(err, InputError))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsKind(cause, Internal))
}

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	Respond(ctx, err)
	return rec
}

func TestRespondHidesInternalDetail(t *testing.T) {
	rec := respond(New(Internal, "mongo timeout on users", errors.New("dial tcp")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "mongo")
	assert.Contains(t, rec.Body.String(), internalErrorMessage)

	rec = respond(errors.New("untyped"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRespondWritesClientMessage(t *testing.T) {
	rec := respond(New(CredentialMismatch, "Invalid credentials", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
}
