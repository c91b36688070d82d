package app

import "time"

// dispatcher runs fn on the owning session's event stream (serialized with every
// other state change). fn reports whether it changed anything observable.
// Timer callbacks never touch session state except through it.
type dispatcher func(fn func() bool)

// timerSlot holds at most one pending callback. Scheduling replaces the current
// occupant, and a callback that fires after being replaced or cancelled is dropped.
// All methods must be called from the event stream.
type timerSlot struct {
	clock    Clock
	dispatch dispatcher
	timer    Timer
	gen      uint64
}

func newTimerSlot(clock Clock, dispatch dispatcher) *timerSlot {
	return &timerSlot{clock: clock, dispatch: dispatch}
}

func (t *timerSlot) schedule(d time.Duration, fn func() bool) {
	t.cancel()
	gen := t.gen
	t.timer = t.clock.AfterFunc(d, func() {
		t.dispatch(func() bool {
			if t.gen != gen {
				return false
			}
			t.timer = nil
			return fn()
		})
	})
}

func (t *timerSlot) cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

func (t *timerSlot) pending() bool {
	return t.timer != nil
}

// countdown ticks a remaining duration down to zero in fixed steps.
// Like timerSlot it is owned by one session and only used from its event stream.
type countdown struct {
	slot      *timerSlot
	total     time.Duration
	step      time.Duration
	remaining time.Duration
	running   bool
}

func newCountdown(clock Clock, dispatch dispatcher, total, step time.Duration) *countdown {
	return &countdown{
		slot:      newTimerSlot(clock, dispatch),
		total:     total,
		step:      step,
		remaining: total,
	}
}

// start resets the remaining time to the full duration and begins ticking, replacing any
// countdown already running. halted is consulted before every decrement; once it reports
// true the countdown stops without touching the remaining time. onExpire runs once when
// it reaches zero.
func (c *countdown) start(halted func() bool, onExpire func()) {
	c.cancel()
	c.remaining = c.total
	c.running = true
	c.next(halted, onExpire)
}

func (c *countdown) next(halted func() bool, onExpire func()) {
	c.slot.schedule(c.step, func() bool {
		if !c.running {
			return false
		}
		if halted() {
			c.running = false
			return false
		}
		c.remaining -= c.step
		if c.remaining <= 0 {
			c.remaining = 0
			c.running = false
			onExpire()
			return true
		}
		c.next(halted, onExpire)
		return true
	})
}

// cancel stops ticking. Safe to call repeatedly.
func (c *countdown) cancel() {
	c.running = false
	c.slot.cancel()
}

// reset cancels and restores the full duration.
func (c *countdown) reset() {
	c.cancel()
	c.remaining = c.total
}

func (c *countdown) seconds() float64 {
	return c.remaining.Seconds()
}
