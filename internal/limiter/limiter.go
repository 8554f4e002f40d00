package limiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/gsarma/codepad/internal/metrics"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out a token bucket per client IP. Every execute request
// costs at least one call against the upstream API quota.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*entry
	rps     rate.Limit
	burst   int
}

func New(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*entry),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

// Allow reports whether the client may make one more request now.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	e, ok := rl.clients[ip]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = e
	}
	e.lastSeen = time.Now()
	rl.mu.Unlock()

	if !e.limiter.Allow() {
		metrics.RateLimitHits.Inc()
		return false
	}
	return true
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// Prune drops clients idle for longer than maxIdle and returns how many were removed.
func (rl *RateLimiter) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	n := 0
	for ip, e := range rl.clients {
		if e.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
			n++
		}
	}
	return n
}

// StartCleanup prunes idle clients every interval until done is closed.
func (rl *RateLimiter) StartCleanup(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				rl.Prune(interval)
			}
		}
	}()
}
