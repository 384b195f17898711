package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTokenBucketPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TokenBucketPerIP(1, false, http.MethodPost))
	router.POST("/login", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	router.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	send := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/login").Code)
	limited := send(http.MethodPost, "/login")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Contains(t, limited.Body.String(), limitedMessage)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send(http.MethodGet, "/ping").Code, "GET is not limited")
	}
}

func TestTokenBucketPerIPForwardedHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		trustProxy bool
		secondCode int
	}{
		{name: "spoofed header ignored", trustProxy: false, secondCode: http.StatusTooManyRequests},
		{name: "trusted proxy header keys bucket", trustProxy: true, secondCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(TokenBucketPerIP(1, tt.trustProxy, http.MethodPost))
			router.POST("/login", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

			send := func(i int) int {
				req := httptest.NewRequest(http.MethodPost, "/login", nil)
				req.RemoteAddr = "10.0.0.1:5000"
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)
				return rec.Code
			}

			assert.Equal(t, http.StatusOK, send(1))
			assert.Equal(t, tt.secondCode, send(2))
		})
	}
}
