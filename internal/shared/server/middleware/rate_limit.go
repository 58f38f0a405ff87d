package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"techstack-backend/internal/shared/server/respond"
)

// idleBucketTTL is how long a refilled bucket is kept after its last use.
const idleBucketTTL = 10 * time.Minute

// ClientLimiter hands out one token bucket per client. Each bucket refills at
// rate tokens per second up to burst.
type ClientLimiter struct {
	rate  float64
	burst float64
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	lastSweep time.Time
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

// NewClientLimiter constructs a limiter. A non-positive rate or burst
// disables limiting. A nil clock uses time.Now.
func NewClientLimiter(rate float64, burst int, now func() time.Time) *ClientLimiter {
	if now == nil {
		now = time.Now
	}
	return &ClientLimiter{
		rate:    rate,
		burst:   float64(burst),
		now:     now,
		buckets: make(map[string]*tokenBucket),
	}
}

// Take spends one token for key. When the bucket is empty it reports how
// long until the next token.
func (l *ClientLimiter) Take(key string) (bool, time.Duration) {
	if l == nil || l.rate <= 0 || l.burst <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: l.burst, seen: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.seen).Seconds(); elapsed > 0 {
		b.tokens = math.Min(l.burst, b.tokens+elapsed*l.rate)
	}
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := (1 - b.tokens) / l.rate
	return false, time.Duration(math.Ceil(wait*1000)) * time.Millisecond
}

// Clients returns the number of tracked buckets.
func (l *ClientLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops buckets idle long enough to have refilled. Callers hold mu.
func (l *ClientLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleBucketTTL {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.seen) >= idleBucketTTL {
			delete(l.buckets, key)
		}
	}
}

// RateLimitConfig selects which requests are limited and how clients are
// told apart.
type RateLimitConfig struct {
	Limiter *ClientLimiter
	// Match reports whether the request is subject to the limit. Nil limits
	// every request.
	Match func(*gin.Context) bool
	// Key identifies the client. Nil uses the client IP.
	Key func(*gin.Context) string
}

// RateLimit answers over-limit requests with 429, a Retry-After header and
// the standard error envelope.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	key := cfg.Key
	if key == nil {
		key = func(c *gin.Context) string { return strings.TrimSpace(c.ClientIP()) }
	}
	return func(c *gin.Context) {
		if cfg.Limiter == nil || (cfg.Match != nil && !cfg.Match(c)) {
			c.Next()
			return
		}
		ok, wait := cfg.Limiter.Take(key(c))
		if ok {
			c.Next()
			return
		}

		waitMs := wait.Milliseconds()
		if waitMs <= 0 {
			waitMs = 1000
		}
		c.Header("Retry-After", strconv.FormatInt((waitMs+999)/1000, 10))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests", gin.H{
			"retryAfterMs": waitMs,
		})
	}
}
