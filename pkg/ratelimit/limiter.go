package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for pacing requests
type Limiter interface {
	// Allow checks if a request is allowed under the current pace
	Allow() bool
	// Wait blocks until the pace allows another request or the context ends
	Wait(ctx context.Context) error
	// Reset resets the limiter state
	Reset()
}

// Pacer spaces requests a fixed interval apart. The bucket holds a single
// token, so the first request goes through immediately and every later one
// waits out the interval.
type Pacer struct {
	interval time.Duration
	mu       sync.Mutex
	rl       *rate.Limiter
}

// NewPacer creates a Pacer with the given minimum interval between
// requests. A zero or negative interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		rl:       newLimiter(interval),
	}
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Allow checks if a request can proceed right now
func (p *Pacer) Allow() bool {
	return p.limiter().Allow()
}

// Wait blocks until a request can proceed. It returns early with the
// context's error when the context is canceled or its deadline would pass
// before the pace allows the request.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter().Wait(ctx)
}

// Reset refills the bucket so the next request proceeds immediately
func (p *Pacer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rl = newLimiter(p.interval)
}

func (p *Pacer) limiter() *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rl
}
