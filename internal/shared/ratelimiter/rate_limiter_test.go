package ratelimiter

import (
	"testing"
	"time"
)

func TestRateLimiter_UnderLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, time.Second)

	start := time.Now()
	rl.WaitIfNeeded()
	rl.WaitIfNeeded()
	rl.WaitIfNeeded()

	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("expected no sleep under the limit, took %v", elapsed)
	}
}

func TestRateLimiter_SleepsWhenExceeded(t *testing.T) {
	t.Parallel()

	interval := 300 * time.Millisecond
	rl := NewRateLimiter(2, interval)

	rl.WaitIfNeeded()
	rl.WaitIfNeeded()

	// The third call exceeds the budget and must sleep into the next window.
	start := time.Now()
	rl.WaitIfNeeded()

	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Errorf("expected the third call to sleep, took %v", elapsed)
	}
}

func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	t.Parallel()

	interval := 100 * time.Millisecond
	rl := NewRateLimiter(1, interval)

	rl.WaitIfNeeded()
	time.Sleep(interval + 20*time.Millisecond)

	// The window has passed; the budget is fresh.
	start := time.Now()
	rl.WaitIfNeeded()

	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected no sleep after the window reset, took %v", elapsed)
	}
}
