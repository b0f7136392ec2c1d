package directions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Service names for rate limiting
	ServiceGoogle    = "google"
	ServiceOSRM      = "osrm"
	ServiceNominatim = "nominatim"
)

// Limit is a requests-per-second budget with a burst allowance.
type Limit struct {
	RPS   float64
	Burst int
}

// DefaultLimits follows the public usage policies of each service.
func DefaultLimits() map[string]Limit {
	return map[string]Limit{
		// Google bills per request; keep a modest ceiling
		ServiceGoogle: {RPS: 10, Burst: 10},

		// OSRM demo server: 100 requests per minute (to be safe and avoid abuse)
		ServiceOSRM: {RPS: 1 / (600 * time.Millisecond).Seconds(), Burst: 5},

		// Nominatim: 1 request per second
		// https://operations.osmfoundation.org/policies/nominatim/
		ServiceNominatim: {RPS: 1, Burst: 1},
	}
}

// RateLimiter manages rate limiting for the external services we call.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
}

// NewRateLimiter creates a limiter per service from limits. The set of
// services is fixed once built, so Wait needs no locking.
func NewRateLimiter(limits map[string]Limit) *RateLimiter {
	rl := &RateLimiter{limiters: make(map[string]*rate.Limiter, len(limits))}
	for service, l := range limits {
		rl.limiters[service] = rate.NewLimiter(rate.Limit(l.RPS), l.Burst)
	}
	return rl
}

// Wait blocks until the rate limit for the specified service allows an event
// or the context is canceled.
func (rl *RateLimiter) Wait(ctx context.Context, service string) error {
	limiter, exists := rl.limiters[service]

	if !exists {
		return fmt.Errorf("no rate limiter defined for service: %s", service)
	}

	if err := limiter.Wait(ctx); err != nil {
		slog.Debug("rate limiter wait error", "service", service, "error", err)
		return err
	}
	return nil
}
