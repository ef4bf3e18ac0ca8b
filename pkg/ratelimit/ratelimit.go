package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter enforces a minimum interval between operations on a per-host
// basis, incorporating optional jitter. Hosts are independent: waiting on
// one host never delays another.
// It is safe for concurrent use by multiple goroutines.
type Limiter struct {
	interval time.Duration
	jitter   float64 // 0.0 to 1.0
	mu       sync.Mutex
	last     map[string]time.Time
}

// NewLimiter creates a limiter with the given minimum inter-request interval
// and jitter factor. Jitter must be between 0.0 and 1.0.
// If interval is <= 0, the limiter does not block.
func NewLimiter(interval time.Duration, jitter float64) *Limiter {
	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}
	return &Limiter{
		interval: interval,
		jitter:   jitter,
		last:     make(map[string]time.Time),
	}
}

// Wait blocks until at least the configured interval has elapsed since the
// previous call for the same host, or until the context is canceled. The
// first call for a host returns immediately.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	if l.interval <= 0 {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	wait := time.Duration(0)
	if prev, ok := l.last[host]; ok {
		interval := l.interval
		if l.jitter > 0 {
			// Random jitter between 0 and +jitter*interval. Only positive
			// jitter: a Ticker-style minimum interval must never shrink.
			interval += time.Duration(float64(interval) * l.jitter * rand.Float64())
		}
		if elapsed := now.Sub(prev); elapsed < interval {
			wait = interval - elapsed
		}
	}
	l.last[host] = now.Add(wait)
	l.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Interval returns the configured minimum interval.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
