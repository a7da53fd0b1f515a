package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter tracks a per-key limiter and when it was last used
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key
type RateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*clientLimiter
	burst      int
	refillRate rate.Limit
	now        func() time.Time
}

// NewRateLimiter creates a limiter allowing burst requests per key, refilled
// at refillRate requests per second.
func NewRateLimiter(burst int, refillRate float64) *RateLimiter {
	return &RateLimiter{
		clients:    make(map[string]*clientLimiter),
		burst:      burst,
		refillRate: rate.Limit(refillRate),
		now:        time.Now,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if cl, ok := rl.clients[key]; ok {
		cl.lastSeen = now
		return cl.limiter
	}
	limiter := rate.NewLimiter(rl.refillRate, rl.burst)
	rl.clients[key] = &clientLimiter{limiter: limiter, lastSeen: now}
	return limiter
}

// Reserve takes a token for key. It returns zero when allowed, otherwise how
// long the caller would have to wait; the token is not consumed in that case.
func (rl *RateLimiter) Reserve(key string) (time.Duration, bool) {
	limiter := rl.get(key)
	now := rl.now()

	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return 0, false
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return delay, false
	}
	return 0, true
}

// Allow reports whether a request for key may proceed
func (rl *RateLimiter) Allow(key string) bool {
	_, ok := rl.Reserve(key)
	return ok
}

// Sweep drops limiters not used within maxIdle and returns how many remain
func (rl *RateLimiter) Sweep(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > maxIdle {
			delete(rl.clients, key)
		}
	}
	return len(rl.clients)
}

// RunCleanup sweeps every interval until ctx is done
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep(maxIdle)
		}
	}
}
