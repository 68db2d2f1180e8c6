package mctask

import (
	"time"

	"github.com/pryga/mctask/internal/scheduler"
)

// ThreadContext is handed to every created thread's entry function (and
// available for the host's own entry-point goroutine via
// Kernel.MainContext). It is the cooperative substitute for the hardware
// suspension points spec.md §5 lists: a thread body calls Checkpoint
// (directly, or through Delay) at the points that would be "any machine
// instruction" on real hardware, and blocks inside Join the same way
// thread_join() does under sched_lock.
type ThreadContext struct {
	inner *scheduler.ThreadContext
}

// Descriptor returns this thread's own handle, e.g. to hand to another
// thread as a join target.
func (c *ThreadContext) Descriptor() *Thread {
	return &Thread{desc: c.inner.Descriptor()}
}

// Checkpoint yields to the scheduler if it has already decided this thread
// should no longer be running, parking until resumed. Call this from loop
// bodies the way the original relies on SysTick firing mid-instruction.
func (c *ThreadContext) Checkpoint() {
	c.inner.Checkpoint()
}

// Delay blocks for approximately d, checkpointing periodically so other
// ready threads still get a slice while this one sleeps.
func (c *ThreadContext) Delay(d time.Duration) {
	c.inner.Delay(d)
}

// Join blocks until t ends. Returns an *Error with Code ErrCodeDeadlock if t
// is this thread itself,
// and returns immediately (nil) if t has already ended or was never
// created — spec.md §4.3's ALREADY_DONE path, reported as success.
func (c *ThreadContext) Join(t *Thread) error {
	if t == nil || t.desc == nil {
		return nil
	}
	if err := c.inner.Join(t.desc); err != nil {
		return Wrap("thread_join", err)
	}
	return nil
}
