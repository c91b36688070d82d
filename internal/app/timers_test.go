package app

import (
	"sync"
	"testing"
	"time"
)

func newTestCountdown(clock *manualClock) *countdown {
	var mu sync.Mutex
	dispatch := func(fn func() bool) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}
	return newCountdown(clock, dispatch, 10*time.Second, 100*time.Millisecond)
}

func TestCountdownReachesZeroAndExpiresOnce(t *testing.T) {
	clock := newManualClock()
	c := newTestCountdown(clock)

	expiries := 0
	c.start(func() bool { return false }, func() { expiries++ })

	for i := 0; i < 99; i++ {
		clock.Advance(100 * time.Millisecond)
	}
	if expiries != 0 || c.remaining != 100*time.Millisecond {
		t.Fatalf("expected one step left after 99 ticks, remaining=%v expiries=%d", c.remaining, expiries)
	}

	clock.Advance(100 * time.Millisecond)
	if c.seconds() != 0 {
		t.Fatalf("expected exactly zero after 100 ticks, got %v", c.seconds())
	}
	if expiries != 1 {
		t.Fatalf("expected 1 expiry, got %d", expiries)
	}

	clock.Advance(5 * time.Second)
	if expiries != 1 || c.seconds() != 0 {
		t.Fatalf("expiry re-fired or time moved: expiries=%d remaining=%v", expiries, c.seconds())
	}
	if clock.pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", clock.pending())
	}
}

func TestCountdownCancelIsIdempotent(t *testing.T) {
	clock := newManualClock()
	c := newTestCountdown(clock)

	expiries := 0
	c.start(func() bool { return false }, func() { expiries++ })
	clock.Advance(time.Second)
	c.cancel()
	c.cancel()

	remaining := c.seconds()
	clock.Advance(20 * time.Second)
	if c.seconds() != remaining {
		t.Fatalf("time moved after cancel: %v -> %v", remaining, c.seconds())
	}
	if expiries != 0 {
		t.Fatalf("expiry fired after cancel")
	}
}

func TestCountdownHaltsWithoutDecrementing(t *testing.T) {
	clock := newManualClock()
	c := newTestCountdown(clock)

	halted := false
	expiries := 0
	c.start(func() bool { return halted }, func() { expiries++ })
	clock.Advance(500 * time.Millisecond)
	before := c.seconds()

	halted = true
	clock.Advance(20 * time.Second)
	if c.seconds() != before {
		t.Fatalf("expected halted countdown to keep %v, got %v", before, c.seconds())
	}
	if expiries != 0 {
		t.Fatalf("halted countdown must not expire")
	}
}

func TestCountdownStartReplacesRunningCountdown(t *testing.T) {
	clock := newManualClock()
	c := newTestCountdown(clock)

	first, second := 0, 0
	c.start(func() bool { return false }, func() { first++ })
	clock.Advance(5 * time.Second)
	c.start(func() bool { return false }, func() { second++ })
	if c.seconds() != 10 {
		t.Fatalf("expected restart at full time, got %v", c.seconds())
	}

	clock.Advance(10 * time.Second)
	if first != 0 || second != 1 {
		t.Fatalf("expected only the replacement to expire, first=%d second=%d", first, second)
	}
}

func TestTimerSlotDropsReplacedCallback(t *testing.T) {
	clock := newManualClock()
	slot := newTimerSlot(clock, func(fn func() bool) { fn() })

	var fired []string
	slot.schedule(time.Second, func() bool { fired = append(fired, "a"); return true })
	slot.schedule(2*time.Second, func() bool { fired = append(fired, "b"); return true })
	if !slot.pending() {
		t.Fatalf("expected pending timer")
	}

	clock.Advance(3 * time.Second)
	if len(fired) != 1 || fired[0] != "b" {
		t.Fatalf("expected only replacement to fire, got %v", fired)
	}
	if slot.pending() {
		t.Fatalf("expected slot to be empty after firing")
	}
}

func TestCountdownPublishesEveryTick(t *testing.T) {
	clock := newManualClock()
	changes := 0
	dispatch := func(fn func() bool) {
		if fn() {
			changes++
		}
	}
	c := newCountdown(clock, dispatch, time.Second, 100*time.Millisecond)
	c.start(func() bool { return false }, func() {})

	for i := 0; i < 5; i++ {
		clock.Advance(100 * time.Millisecond)
	}
	if changes != 5 || c.remaining != 500*time.Millisecond {
		t.Fatalf("expected 5 published ticks at 500ms, got changes=%d remaining=%v", changes, c.remaining)
	}
}
