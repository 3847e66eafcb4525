package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig controls how Retry spaces and limits its attempts.
type RetryConfig struct {
	// MaxAttempts caps the total number of tries, the first included.
	MaxAttempts int
	// InitialBackoff is the pause after the first failure.
	InitialBackoff time.Duration
	// MaxBackoff caps the pause between attempts.
	MaxBackoff time.Duration
	// BackoffFactor multiplies the pause after every failure.
	BackoffFactor float64
	// Jitter spreads each pause by up to this fraction in either
	// direction, so parallel clients do not retry in lockstep.
	Jitter float64
	// RetryIf decides whether an error is worth another attempt. When
	// nil, everything except context cancellation is retried.
	RetryIf func(error) bool
	// OnRetry observes each scheduled retry before its pause.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

// DefaultRetryConfig returns the shared retry policy: three attempts,
// 100ms initial backoff doubling up to 10s, with 10% jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         0.1,
	}
}

func (cfg RetryConfig) withDefaults() RetryConfig {
	def := DefaultRetryConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = def.BackoffFactor
	}
	if cfg.Jitter < 0 || cfg.Jitter > 1 {
		cfg.Jitter = def.Jitter
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = func(err error) bool {
			return !errors.Is(err, context.Canceled) &&
				!errors.Is(err, context.DeadlineExceeded)
		}
	}
	return cfg
}

// Retry runs fn until it succeeds, the error is ruled out by RetryIf,
// the attempt budget runs out, or ctx is done. It returns fn's result
// on success and the last error otherwise; a canceled context returns
// ctx.Err.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	cfg = cfg.withDefaults()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !cfg.RetryIf(err) || attempt >= cfg.MaxAttempts {
			return zero, err
		}

		pause := cfg.backoffFor(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, pause)
		}

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// RetryFunc is Retry for functions with no result.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// backoffFor returns the pause before attempt+1: exponential growth
// from InitialBackoff, jittered, then capped at MaxBackoff.
func (cfg RetryConfig) backoffFor(attempt int) time.Duration {
	pause := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if cfg.Jitter > 0 {
		pause *= 1 + cfg.Jitter*(2*rand.Float64()-1)
	}
	if ceiling := float64(cfg.MaxBackoff); pause > ceiling {
		pause = ceiling
	}
	return time.Duration(pause)
}
