package ratelimit

import (
	"encoding/json"
	"time"

	"github.com/didip/tollbooth"
	"github.com/didip/tollbooth/limiter"
	"github.com/didip/tollbooth_gin"
	"github.com/gin-gonic/gin"
)

const limitedMessage = "You have made too many requests. Please slow down."

// TokenBucketPerIP allows each client IP perSecond requests per second on
// the given methods (every method when none are passed). Buckets for idle
// IPs expire after a minute. Forwarding headers only key the bucket when
// trustProxy is set, since any client can write them.
func TokenBucketPerIP(perSecond float64, trustProxy bool, methods ...string) gin.HandlerFunc {
	body, _ := json.Marshal(map[string]string{"error": limitedMessage})
	lookups := []string{"RemoteAddr"}
	if trustProxy {
		lookups = []string{"X-Forwarded-For", "X-Real-IP", "RemoteAddr"}
	}

	bucket := tollbooth.NewLimiter(perSecond, &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Minute,
	}).
		SetIPLookups(lookups).
		SetMessageContentType("application/json; charset=utf-8").
		SetMessage(string(body))
	if len(methods) > 0 {
		bucket.SetMethods(methods)
	}

	return tollbooth_gin.LimitHandler(bucket)
}
