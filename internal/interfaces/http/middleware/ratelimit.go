package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key.
// Each bucket refills limit tokens per window and holds at most limit tokens.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	every   rate.Limit
	idleTTL time.Duration
	now     func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window for each key
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		every:   rate.Every(window / time.Duration(limit)),
		idleTTL: 2 * window,
		now:     time.Now,
	}
}

// Allow consumes a token for key and reports whether one was available
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evictIdle(now)

	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.every, rl.limit)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Remaining returns the whole tokens left for key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		return rl.limit
	}
	tokens := int(c.limiter.TokensAt(rl.now()))
	if tokens < 0 {
		return 0
	}
	return tokens
}

// Limit returns the bucket size
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// evictIdle drops buckets unused for idleTTL; they would be full again anyway
func (rl *RateLimiter) evictIdle(now time.Time) {
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitBySupervisor limits requests per authenticated supervisor, falling back to client IP
func RateLimitBySupervisor(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		if id := GetJWTUserID(c); id != "" {
			return "supervisor:" + id
		}
		return c.ClientIP()
	})
}

// RateLimitByKey returns a rate limiting middleware with custom key extractor
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		if !limiter.Allow(key) {
			c.Header("Retry-After", "1")
			abortWithError(c, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests. Please try again later.")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
