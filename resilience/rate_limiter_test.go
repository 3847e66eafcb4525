package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiter_AllowsBurstThenStops(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "sync-api", Rate: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("Allow() call %d = false, want burst of 3", i+1)
		}
	}
	if rl.Allow() {
		t.Error("Allow() = true with the bucket empty")
	}
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "sync-api", Rate: 200, Burst: 1})

	if !rl.Allow() {
		t.Fatal("Allow() = false with a full bucket")
	}
	if rl.Allow() {
		t.Fatal("Allow() = true with the bucket just drained")
	}

	time.Sleep(20 * time.Millisecond)
	if !rl.Allow() {
		t.Error("Allow() = false after refill window")
	}
}

func TestRateLimiter_WaitReturnsImmediatelyWithTokens(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "sync-api", Rate: 1, Burst: 5})

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Wait() took %v with tokens available", elapsed)
	}
}

func TestRateLimiter_WaitPacesDrainingBacklog(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "sync-api", Rate: 100, Burst: 1})

	start := time.Now()
	for i := 0; i < 4; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() call %d error = %v", i+1, err)
		}
	}
	// One token is free, the other three refill at 10ms each.
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Errorf("4 calls drained in %v, want the bucket to pace them", elapsed)
	}
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "sync-api", Rate: 0.1, Burst: 1})
	rl.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestRateLimiter_OnLimitObservesRejections(t *testing.T) {
	var limited []string
	rl := NewRateLimiter(RateLimiterConfig{
		Name:    "sync-api",
		Rate:    1,
		Burst:   1,
		OnLimit: func(name string) { limited = append(limited, name) },
	})

	rl.Allow()
	rl.Allow()

	if len(limited) != 1 || limited[0] != "sync-api" {
		t.Errorf("OnLimit observed %v, want one rejection for sync-api", limited)
	}
}

func TestRateLimiter_ReservationsGoNegative(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "sync-api", Rate: 1, Burst: 1})

	if delay := rl.reserve(); delay != 0 {
		t.Fatalf("first reserve() delay = %v, want 0", delay)
	}
	delay := rl.reserve()
	if delay <= 0 || delay > 2*time.Second {
		t.Fatalf("second reserve() delay = %v, want about 1s", delay)
	}
	if tokens := rl.Tokens(); tokens > 0 {
		t.Errorf("Tokens() = %v, want the reserved backlog to show as negative", tokens)
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	cfg := DefaultRateLimiterConfig("sync-api")
	if cfg.Rate != 10.0 || cfg.Burst != 20 {
		t.Errorf("DefaultRateLimiterConfig = %+v, want rate 10 burst 20", cfg)
	}

	rl := NewRateLimiter(RateLimiterConfig{Name: "zero"})
	if got := rl.Tokens(); got != 10 {
		t.Errorf("Tokens() = %v, want 10 (burst falls back to the rate)", got)
	}
}
