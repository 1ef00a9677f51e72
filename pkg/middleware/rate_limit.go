package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Mutating routes (submissions, approvals, bids, purchases) run on a quarter
// of the read limit.
const writeLimitDivisor = 4

func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			userID = c.ClientIP()
		}

		allowed := limitForMethod(c.Request.Method, limit)
		key := fmt.Sprintf("rate_limit:%s:%s:%s", c.Request.Method, c.Request.URL.Path, userID)

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			c.Abort()
			return
		}

		if count == 1 {
			redisClient.Expire(ctx, key, window)
		}

		if count > int64(allowed) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// limitForMethod returns the per-window budget for a request method. Reads
// keep the full limit; everything else gets the write budget, never below 1.
func limitForMethod(method string, limit int) int {
	switch method {
	case http.MethodGet, http.MethodHead:
		return limit
	}
	reduced := limit / writeLimitDivisor
	if reduced < 1 {
		return 1
	}
	return reduced
}
