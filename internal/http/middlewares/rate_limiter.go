package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-client token bucket: rate tokens per second up
// to burst, keyed by client IP. Buckets idle longer than staleAfter are
// pruned so the map does not grow with every address ever seen.
type RateLimiter struct {
	mu         sync.Mutex
	rate       int
	burst      int
	buckets    map[string]*bucket
	lastPrune  time.Time
	staleAfter time.Duration
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

func NewRateLimiter(rate, burst int) *RateLimiter {
	return &RateLimiter{
		rate:       rate,
		burst:      burst,
		buckets:    make(map[string]*bucket),
		lastPrune:  time.Now(),
		staleAfter: 10 * time.Minute,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{tokens: float64(rl.burst)}
		rl.buckets[ip] = b
	} else {
		b.tokens += now.Sub(b.lastSeen).Seconds() * float64(rl.rate)
		if b.tokens > float64(rl.burst) {
			b.tokens = float64(rl.burst)
		}
	}
	b.lastSeen = now

	if now.Sub(rl.lastPrune) > rl.staleAfter {
		for key, old := range rl.buckets {
			if now.Sub(old.lastSeen) > rl.staleAfter {
				delete(rl.buckets, key)
			}
		}
		rl.lastPrune = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
