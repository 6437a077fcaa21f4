// Package ratelimit provides a token-bucket rate limiter for outbound
// scraping requests. It supports both non-blocking (Allow) and blocking
// (Wait) operations.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces requests against a single remote host.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter.
// rps: requests per second allowed.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Allow reports whether a request may proceed right now, without blocking.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Wait blocks until a request is allowed or the context is canceled.
// Use for outbound requests where you want to respect rate limits.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
