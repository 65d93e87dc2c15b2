package availability

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimiter throttles availability source calls with a token bucket.
// The upstream service is unauthenticated and aggressive polling gets
// whole IP ranges blocked, so every Fetch goes through Wait first.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a rate limiter with the given per-second rate and
// burst size.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Wait blocks until the limiter allows the call, or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// Allow reports whether a call may proceed immediately without blocking.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}
