package middleware

import (
	"net/http"
	"sync"
	"time"

	"online-canteen-api/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

//go:generate mockgen -destination=mocks/mock_ratelimiter.go -package=mocks online-canteen-api/middleware RateLimiter

// RateLimiter decides whether one more request for key fits the budget.
// Allow records the attempt.
type RateLimiter interface {
	Allow(key string) bool
}

// ==================== Fixed window ====================

type windowCounter struct {
	count int
	start time.Time
}

// FixedWindowLimiter allows limit requests per key in each window. The window
// starts at the first request after the previous one expired.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	entries map[string]*windowCounter
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*windowCounter),
	}
}

func (l *FixedWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.Sub(e.start) > l.window {
		l.entries[key] = &windowCounter{count: 1, start: now}
		return l.limit >= 1
	}
	e.count++
	return e.count <= l.limit
}

// Cleanup drops windows that expired more than one window ago
func (l *FixedWindowLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, e := range l.entries {
		if now.Sub(e.start) > 2*l.window {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// ==================== Token bucket ====================

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucketLimiter refills limit tokens per window for each key
type TokenBucketLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	window  time.Duration
	now     func() time.Time
	buckets map[string]*bucket
}

func NewTokenBucketLimiter(limit int, window time.Duration) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		limit:   rate.Limit(float64(limit) / window.Seconds()),
		burst:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (l *TokenBucketLimiter) Allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

// Cleanup drops buckets idle for two windows; they would be full again anyway
func (l *TokenBucketLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > 2*l.window {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// NewRateLimiter builds the limiter selected by strategy ("fixed" or "token")
func NewRateLimiter(strategy string, limit int, window time.Duration) RateLimiter {
	if strategy == "token" {
		return NewTokenBucketLimiter(limit, window)
	}
	return NewFixedWindowLimiter(limit, window)
}

// ==================== Middleware ====================

// RateLimit rejects callers over budget with 429. Callers are keyed by
// c.ClientIP(), which only honours forwarding headers from the engine's
// trusted proxies.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		metrics.RateLimited.WithLabelValues(c.FullPath()).Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"message":    "Too many authentication attempts. Please try again later.",
			"retryAfter": 60,
		})
	}
}
