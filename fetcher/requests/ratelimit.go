package requests

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Riot limits for a personal key, per routing value.
const (
	ShortWindow = time.Second
	LongWindow  = 2 * time.Minute
)

// Single riot rate limiting window.
type RiotLimit struct {
	Limit  int
	Window time.Duration
}

// Full riot rate limit, containing all the constraints of a single routing value.
type routingLimiter struct {
	windows []*rate.Limiter
}

// RateLimiter keeps one set of windows for each routing value.
// Riot applies the limits per routing value, so each one is throttled separately.
type RateLimiter struct {
	limits []RiotLimit

	mu       sync.Mutex
	limiters map[string]*routingLimiter
}

// NewRateLimiter creates a limiter with the given windows.
// A limit lower or equal to zero is ignored.
func NewRateLimiter(limits ...RiotLimit) *RateLimiter {
	enabled := make([]RiotLimit, 0, len(limits))
	for _, l := range limits {
		if l.Limit > 0 && l.Window > 0 {
			enabled = append(enabled, l)
		}
	}

	return &RateLimiter{
		limits:   enabled,
		limiters: make(map[string]*routingLimiter),
	}
}

// NewRiotRateLimiter creates the limiter with the short and long riot windows.
func NewRiotRateLimiter(shortLimit int, longLimit int) *RateLimiter {
	return NewRateLimiter(
		RiotLimit{Limit: shortLimit, Window: ShortWindow},
		RiotLimit{Limit: longLimit, Window: LongWindow},
	)
}

// Get or create the windows for the routing value.
func (r *RateLimiter) forRouting(routing string) *routingLimiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, ok := r.limiters[routing]
	if ok {
		return limiter
	}

	limiter = &routingLimiter{windows: make([]*rate.Limiter, 0, len(r.limits))}
	for _, l := range r.limits {
		// Refill evenly across the window, allowing a full window burst.
		every := l.Window / time.Duration(l.Limit)
		limiter.windows = append(limiter.windows, rate.NewLimiter(rate.Every(every), l.Limit))
	}
	r.limiters[routing] = limiter

	return limiter
}

// Wait blocks until a request to the routing value is allowed by every window.
func (r *RateLimiter) Wait(ctx context.Context, routing string) error {
	if r == nil || len(r.limits) == 0 {
		return nil
	}

	for _, window := range r.forRouting(routing).windows {
		if err := window.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}
