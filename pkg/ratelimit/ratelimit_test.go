package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWaitZeroIntervalNeverBlocks(t *testing.T) {
	l := NewLimiter(0, 0.5)
	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Wait(context.Background(), "example.com"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("zero-interval limiter blocked")
	}
}

func TestWaitFirstCallImmediate(t *testing.T) {
	l := NewLimiter(time.Second, 0)
	start := time.Now()
	if err := l.Wait(context.Background(), "example.com"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("first call for a host blocked")
	}
}

func TestWaitEnforcesInterval(t *testing.T) {
	const interval = 50 * time.Millisecond
	l := NewLimiter(interval, 0)

	if err := l.Wait(context.Background(), "example.com"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	start := time.Now()
	if err := l.Wait(context.Background(), "example.com"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < interval-5*time.Millisecond {
		t.Errorf("second call returned after %v, want >= %v", elapsed, interval)
	}
}

func TestWaitHostsIndependent(t *testing.T) {
	l := NewLimiter(time.Second, 0)

	if err := l.Wait(context.Background(), "a.example.com"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	start := time.Now()
	if err := l.Wait(context.Background(), "b.example.com"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("waiting on one host delayed another")
	}
}

func TestWaitCancellation(t *testing.T) {
	l := NewLimiter(10*time.Second, 0)

	if err := l.Wait(context.Background(), "example.com"); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "example.com"); err == nil {
		t.Error("expected context error from canceled wait")
	}
}

func TestJitterClamped(t *testing.T) {
	if l := NewLimiter(time.Second, -1); l.jitter != 0 {
		t.Errorf("negative jitter = %v, want 0", l.jitter)
	}
	if l := NewLimiter(time.Second, 5); l.jitter != 1 {
		t.Errorf("oversized jitter = %v, want 1", l.jitter)
	}
}
