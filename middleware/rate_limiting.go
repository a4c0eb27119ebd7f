package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"backend_assetflow/database"
)

// RateLimitConfig configures a rate limiting middleware instance.
type RateLimitConfig struct {
	Requests     int                       // allowed requests per window
	Window       time.Duration             // window length
	KeyGenerator func(*gin.Context) string // request grouping key
}

// DefaultKeyGenerator groups requests by client IP.
func DefaultKeyGenerator(c *gin.Context) string {
	return c.ClientIP()
}

// UserKeyGenerator groups requests by authenticated user, falling back to IP.
func UserKeyGenerator(c *gin.Context) string {
	if userID := GetCurrentUserID(c); userID != 0 {
		return "user:" + strconv.FormatUint(uint64(userID), 10)
	}
	return c.ClientIP()
}

// RateLimit limits request frequency using a Redis counter per key. When
// Redis is unavailable the middleware lets everything through.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		redisClient := database.GetRedis()
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rate_limit:" + config.KeyGenerator(c)

		current, err := redisClient.Incr(database.Ctx, key).Result()
		if err != nil {
			// On Redis errors fail open
			c.Next()
			return
		}

		if current == 1 {
			redisClient.Expire(database.Ctx, key, config.Window)
		}

		remaining := int64(config.Requests) - current
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if current > int64(config.Requests) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoginRateLimit guards the credential endpoint against brute force attempts.
func LoginRateLimit() gin.HandlerFunc {
	return RateLimit(RateLimitConfig{
		Requests:     10,
		Window:       time.Minute,
		KeyGenerator: DefaultKeyGenerator,
	})
}
