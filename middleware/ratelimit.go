package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter stores per-IP token buckets.
type RateLimiter struct {
	ips   map[string]*limiterEntry
	mu    sync.Mutex
	rate  rate.Limit
	burst int
	ttl   time.Duration
}

// NewRateLimiter creates a new per-IP rate limiter.
func NewRateLimiter(r rate.Limit, b int, ttl time.Duration) *RateLimiter {
	rl := &RateLimiter{
		ips:   make(map[string]*limiterEntry),
		rate:  r,
		burst: b,
		ttl:   ttl,
	}

	// Periodic cleanup of stale entries to avoid unbounded map growth
	go func() {
		ticker := time.NewTicker(ttl)
		defer ticker.Stop()
		for range ticker.C {
			rl.mu.Lock()
			now := time.Now()
			for ip, e := range rl.ips {
				if now.Sub(e.lastSeen) > rl.ttl {
					delete(rl.ips, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

// GetLimiter returns the rate limiter for the given IP.
func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.ips[ip]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.ips[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// RateLimitMiddleware rejects requests over the per-IP limit with 429 and a
// fixed JSON body.
func RateLimitMiddleware(r rate.Limit, burst int, message string) gin.HandlerFunc {
	rl := NewRateLimiter(r, burst, 30*time.Minute)

	return func(c *gin.Context) {
		if !rl.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message})
			return
		}
		c.Next()
	}
}

type windowCounter struct {
	start time.Time
	count int
}

// SpeedLimiter adds progressive latency to clients that exceed a request
// threshold within a sliding window, instead of rejecting them outright.
type SpeedLimiter struct {
	clients    map[string]*windowCounter
	mu         sync.Mutex
	window     time.Duration
	delayAfter int
	delayStep  time.Duration
	maxDelay   time.Duration
}

// NewSpeedLimiter creates a SpeedLimiter. Each request beyond delayAfter in
// the window incurs an extra delayStep of latency, capped at maxDelay.
func NewSpeedLimiter(window time.Duration, delayAfter int, delayStep, maxDelay time.Duration) *SpeedLimiter {
	sl := &SpeedLimiter{
		clients:    make(map[string]*windowCounter),
		window:     window,
		delayAfter: delayAfter,
		delayStep:  delayStep,
		maxDelay:   maxDelay,
	}

	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for range ticker.C {
			sl.mu.Lock()
			now := time.Now()
			for ip, wc := range sl.clients {
				if now.Sub(wc.start) > sl.window {
					delete(sl.clients, ip)
				}
			}
			sl.mu.Unlock()
		}
	}()

	return sl
}

// DelayFor records a request from ip and returns the latency it should incur.
func (sl *SpeedLimiter) DelayFor(ip string) time.Duration {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	now := time.Now()
	wc, ok := sl.clients[ip]
	if !ok || now.Sub(wc.start) > sl.window {
		wc = &windowCounter{start: now}
		sl.clients[ip] = wc
	}
	wc.count++

	over := wc.count - sl.delayAfter
	if over <= 0 {
		return 0
	}
	delay := time.Duration(over) * sl.delayStep
	if delay > sl.maxDelay {
		delay = sl.maxDelay
	}
	return delay
}

// SpeedLimitMiddleware applies progressive slow-down ahead of route handling.
func SpeedLimitMiddleware(window time.Duration, delayAfter int, delayStep, maxDelay time.Duration) gin.HandlerFunc {
	sl := NewSpeedLimiter(window, delayAfter, delayStep, maxDelay)

	return func(c *gin.Context) {
		if delay := sl.DelayFor(c.ClientIP()); delay > 0 {
			time.Sleep(delay)
		}
		c.Next()
	}
}
