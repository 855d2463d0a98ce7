package middlewares

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Kariqs/satshop-api/config"
	"github.com/Kariqs/satshop-api/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RateLimit applies a per-client-IP GCRA limit backed by Redis. It fails
// open when Redis errors.
func RateLimit(rdb *redis.Client, cfg config.RateLimitConfig) gin.HandlerFunc {
	if rdb == nil || !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := redis_rate.NewLimiter(rdb)
	limit := redis_rate.Limit{Rate: cfg.QPS, Period: time.Second, Burst: cfg.Burst}

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		res, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limit check failed", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed == 0 {
			c.Header("Retry-After", strconv.FormatInt(int64(res.RetryAfter/time.Second)+1, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}
