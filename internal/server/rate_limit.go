package server

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter gives every client IP a budget of request units per one-minute
// window. A solve costs one unit and a sweep costs SweepCost units, since a
// sweep runs one solve per reference in its window.
type RateLimiter struct {
	mu        sync.Mutex
	budgets   map[string]*budget
	perWindow int
	sweepCost int
	window    time.Duration
	cleanup   time.Duration
	now       func() time.Time
	stopOnce  sync.Once
	stop      chan struct{}
}

type budget struct {
	used  int
	start time.Time
}

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	// RequestsPerMinute is the number of units a client may spend per minute.
	RequestsPerMinute int
	// SweepCost is the number of units charged for a /sweep request.
	SweepCost int
	// CleanupInterval is how often idle clients are forgotten.
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig allows 60 solves, or 6 sweeps, per minute.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerMinute: 60,
		SweepCost:         10,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine.
// Call Stop to release it.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	def := DefaultRateLimiterConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.SweepCost <= 0 {
		config.SweepCost = def.SweepCost
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}

	rl := &RateLimiter{
		budgets:   make(map[string]*budget),
		perWindow: config.RequestsPerMinute,
		sweepCost: min(config.SweepCost, config.RequestsPerMinute),
		window:    time.Minute,
		cleanup:   config.CleanupInterval,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow charges one unit to clientIP.
func (rl *RateLimiter) Allow(clientIP string) bool {
	ok, _ := rl.allowN(clientIP, 1)
	return ok
}

// allowN charges cost units to clientIP. When the budget is spent it
// returns false and the time left until the window resets.
func (rl *RateLimiter) allowN(clientIP string, cost int) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.budgets[clientIP]
	if !ok || now.Sub(b.start) >= rl.window {
		b = &budget{start: now}
		rl.budgets[clientIP] = b
	}
	if b.used+cost > rl.perWindow {
		return false, rl.window - now.Sub(b.start)
	}
	b.used += cost
	return true, 0
}

// costOf returns the units charged for a request.
func (rl *RateLimiter) costOf(r *http.Request) int {
	if r.URL.Path == "/sweep" {
		return rl.sweepCost
	}
	return 1
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.forgetIdle()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) forgetIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, b := range rl.budgets {
		if now.Sub(b.start) > 2*rl.window {
			delete(rl.budgets, ip)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// RateLimitMiddleware rejects requests over budget with 429 and a
// Retry-After header holding the whole seconds until the window resets.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.allowN(getClientIP(r), rl.costOf(r))
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too Many Requests","message":"Rate limit exceeded. Please try again later."}`))
			return
		}
		next(w, r)
	}
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the connection address.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.Trim(r.RemoteAddr, "[]")
	}
	return host
}
