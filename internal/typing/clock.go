package typing

import (
	"context"
	"sort"
	"time"
)

// Scheduler runs fn once, after d has elapsed.
// Implementations must invoke callbacks from a single goroutine so callers can
// mutate unsynchronized state from them.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// VirtualClock is a manually advanced Scheduler for tests.
type VirtualClock struct {
	now    time.Duration
	seq    int
	timers []virtualTimer
}

type virtualTimer struct {
	at  time.Duration
	seq int
	fn  func()
}

// NewVirtualClock creates a clock at time zero.
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

// Now returns the elapsed virtual time.
func (c *VirtualClock) Now() time.Duration {
	return c.now
}

// After schedules fn at Now()+d.
func (c *VirtualClock) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	c.seq++
	c.timers = append(c.timers, virtualTimer{at: c.now + d, seq: c.seq, fn: fn})
}

// Pending returns the number of scheduled callbacks.
func (c *VirtualClock) Pending() int {
	return len(c.timers)
}

// Advance moves time forward by d, firing every callback that falls due,
// including callbacks scheduled by other callbacks, in time order. Ties fire in
// scheduling order.
func (c *VirtualClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		i := c.next()
		if i < 0 || c.timers[i].at > target {
			break
		}
		t := c.timers[i]
		c.timers = append(c.timers[:i], c.timers[i+1:]...)
		c.now = t.at
		t.fn()
	}
	c.now = target
}

// RunAll fires callbacks until none remain.
func (c *VirtualClock) RunAll() {
	for {
		i := c.next()
		if i < 0 {
			return
		}
		c.Advance(c.timers[i].at - c.now)
	}
}

func (c *VirtualClock) next() int {
	if len(c.timers) == 0 {
		return -1
	}
	sort.SliceStable(c.timers, func(a, b int) bool {
		if c.timers[a].at == c.timers[b].at {
			return c.timers[a].seq < c.timers[b].seq
		}
		return c.timers[a].at < c.timers[b].at
	})
	return 0
}

// BlockingScheduler runs callbacks synchronously on the calling goroutine
// after sleeping. A chain scheduled on it plays out inside the first After
// call. Callbacks due after ctx is cancelled are dropped.
type BlockingScheduler struct {
	Ctx   context.Context
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewBlockingScheduler creates a scheduler that sleeps on real timers.
func NewBlockingScheduler(ctx context.Context) *BlockingScheduler {
	return &BlockingScheduler{Ctx: ctx, Sleep: SleepContext}
}

// After sleeps for d, then runs fn.
func (s *BlockingScheduler) After(d time.Duration, fn func()) {
	ctx := s.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.Sleep(ctx, d); err != nil {
		return
	}
	fn()
}

// SleepContext blocks for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
