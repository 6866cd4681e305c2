package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/barbierimoderni/booking-api/internal/kvstore"
)

const (
	rateLimitWindow = time.Minute
	rateLimitMax    = 10
)

// RateLimitMiddleware throttles anonymous booking traffic per client IP.
// Counters live in the kv store, so every instance sees the same budget.
func RateLimitMiddleware(store kvstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()

		n, err := store.Incr(c.Request.Context(), key, rateLimitWindow)
		if err != nil {
			// Degrade open: a broken limiter must not take bookings down.
			c.Next()
			return
		}

		if n > rateLimitMax {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
			return
		}

		c.Next()
	}
}
