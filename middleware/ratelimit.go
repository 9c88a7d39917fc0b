package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter implements per-user sliding window rate limiting backed by a
// Redis sorted set. It fails open: if Redis is unreachable the request is
// allowed, so messaging never depends on Redis being up.
type RateLimiter struct {
	client    *redis.Client
	keyPrefix string
	limit     int
	window    time.Duration
}

// NewRateLimiter creates a rate limiter allowing limit requests per window
// for each key.
func NewRateLimiter(client *redis.Client, keyPrefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		limit:     limit,
		window:    window,
	}
}

// Allow checks whether another request is allowed for the key and records
// it if so. Returns the number of requests remaining in the window.
func (rl *RateLimiter) Allow(c *gin.Context, key string) (bool, int, error) {
	ctx := c.Request.Context()
	now := time.Now()
	windowStart := now.Add(-rl.window)
	redisKey := rl.keyPrefix + key

	pipe := rl.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(windowStart.UnixMilli(), 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	current := int(countCmd.Val())
	if current >= rl.limit {
		return false, 0, nil
	}

	member := fmt.Sprintf("%d:%d", now.UnixNano(), current)
	pipe = rl.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	pipe.Expire(ctx, redisKey, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	return true, rl.limit - current - 1, nil
}

// Middleware enforces the rate limit for the authenticated user. It must
// run after JWTAuth so the user ID is available.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uint)

		allowed, remaining, err := rl.Allow(c, strconv.FormatUint(uint64(userID), 10))
		if err != nil {
			log.Printf("rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many messages, slow down"})
			return
		}

		c.Next()
	}
}
