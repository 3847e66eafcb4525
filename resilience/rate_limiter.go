package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures a token bucket limiter.
type RateLimiterConfig struct {
	// Name identifies the limiter in the OnLimit hook.
	Name string
	// Rate is the sustained number of calls allowed per second.
	Rate float64
	// Burst is the bucket capacity, the number of calls that may go
	// out back to back after an idle stretch.
	Burst int
	// OnLimit observes calls that found the bucket empty.
	OnLimit func(name string)
}

// DefaultRateLimiterConfig returns the shared limiter policy: ten
// calls per second with bursts of twenty.
func DefaultRateLimiterConfig(name string) RateLimiterConfig {
	return RateLimiterConfig{
		Name:  name,
		Rate:  10.0,
		Burst: 20,
	}
}

// RateLimiter paces outbound calls with a token bucket, so a large
// backlog drains at a rate the receiving service tolerates instead of
// arriving all at once.
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	tokens   float64
	refilled time.Time
}

// NewRateLimiter creates a limiter with a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 10.0
	}
	if config.Burst <= 0 {
		config.Burst = int(config.Rate)
	}
	return &RateLimiter{
		config:   config,
		tokens:   float64(config.Burst),
		refilled: time.Now(),
	}
}

// Allow reports whether a call may proceed now, consuming a token
// when it may. It never blocks.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	if rl.tokens < 1 {
		if rl.config.OnLimit != nil {
			rl.config.OnLimit(rl.config.Name)
		}
		return false
	}
	rl.tokens--
	return true
}

// Wait blocks until a token is available or ctx is done. The token is
// reserved up front, so concurrent waiters queue rather than racing
// for the same refill.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	delay := rl.reserve()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Tokens returns the tokens currently available. A reserved backlog
// shows as a negative count.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

// reserve takes one token and returns how long the caller must wait
// for it, zero when the bucket had one spare.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	rl.tokens--
	if rl.tokens >= 0 {
		return 0
	}

	if rl.config.OnLimit != nil {
		rl.config.OnLimit(rl.config.Name)
	}
	owed := -rl.tokens / rl.config.Rate
	return time.Duration(owed * float64(time.Second))
}

// refillLocked credits tokens for the time elapsed since the last
// credit, capped at Burst. Callers hold mu.
func (rl *RateLimiter) refillLocked() {
	now := time.Now()
	rl.tokens += now.Sub(rl.refilled).Seconds() * rl.config.Rate
	rl.refilled = now
	if burst := float64(rl.config.Burst); rl.tokens > burst {
		rl.tokens = burst
	}
}
