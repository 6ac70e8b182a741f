package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_AllowAndRefill(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 1).WithClock(func() time.Time { return now })

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("expected first two requests to pass")
	}
	if l.Allow("a") {
		t.Fatal("expected third request to be limited")
	}
	if !l.Allow("b") {
		t.Fatal("keys must not share a bucket")
	}

	now = now.Add(time.Second)
	if !l.Allow("a") {
		t.Fatal("expected one token after a second")
	}
	if l.Allow("a") {
		t.Fatal("expected bucket empty again")
	}
}
