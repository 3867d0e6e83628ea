package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glosario-lsc/glosario/pkg/logger"
	"github.com/glosario-lsc/glosario/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRateLimitMiddleware provides a coarse fixed-window Redis-backed limiter
// keyed by client IP, shared by every replica. prefix namespaces the counters
// (e.g. "rl:upload").
// Algorithm: INCR a per-window key and compare against allowed = floor(rps*windowSeconds)+burst.
func RedisRateLimitMiddleware(client *redis.Client, prefix string, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	if prefix == "" {
		prefix = "rl"
	}
	windowSeconds := int(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowedPerWindow := int(rps*float64(windowSeconds)) + burst
	return func(c *gin.Context) {
		bucket := time.Now().Unix() / int64(windowSeconds)
		redisKey := fmt.Sprintf("%s:%s:%d", prefix, clientKey(c), bucket)

		ctx := c.Request.Context()
		pipe := client.TxPipeline()
		incr := pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, time.Duration(windowSeconds+1)*time.Second)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.L().Warn("rate limit check failed", zap.String("key", redisKey), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Rate limit check failed"})
			return
		}
		if int(incr.Val()) > allowedPerWindow {
			c.Header("Retry-After", fmt.Sprintf("%d", windowSeconds))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
