package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/glosario-lsc/glosario/pkg/metrics"
	"golang.org/x/time/rate"
)

// limiterStore is a per-key token-bucket store owned by one middleware.
type limiterStore struct {
	m     sync.Map // map[string]*rate.Limiter
	rps   float64
	burst int
}

// get returns (and lazily creates) the limiter for key
func (s *limiterStore) get(key string) *rate.Limiter {
	if v, ok := s.m.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := s.m.LoadOrStore(key, rate.NewLimiter(rate.Limit(s.rps), s.burst))
	return v.(*rate.Limiter)
}

// clientKey identifies the caller. Contributions are anonymous, so the client
// IP is the only key.
func clientKey(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RateLimitMiddleware returns a Gin middleware enforcing a token-bucket limit
// per client IP. rps = allowed events per second, burst = maximum tokens in
// bucket. Each call gets its own store, so separately limited routes do not
// share budgets.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	store := &limiterStore{rps: rps, burst: burst}
	return func(c *gin.Context) {
		lim := store.get(clientKey(c))
		if !lim.Allow() {
			retry := 1
			if rps > 0 {
				retry = int(1/rps) + 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
