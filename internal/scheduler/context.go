package scheduler

import (
	"time"

	"github.com/pryga/mctask/internal/thread"
)

// ThreadContext is handed to a thread's entry function, giving it the
// cooperative-preemption and blocking primitives the original thread body
// got for free from hardware: a place to yield (Checkpoint), a way to
// sleep (Delay), and a way to block on another thread's completion (Join).
type ThreadContext struct {
	sched *Scheduler
	desc  *thread.Descriptor
}

// Descriptor returns the thread's own descriptor, e.g. to pass to another
// thread as a join target.
func (c *ThreadContext) Descriptor() *thread.Descriptor {
	return c.desc
}

// Checkpoint yields to the scheduler if it has decided this thread should
// no longer be running.
func (c *ThreadContext) Checkpoint() {
	c.sched.Checkpoint(c.desc)
}

// Delay blocks the calling thread for approximately d, checkpointing
// periodically so the scheduler can still switch other threads in while
// this one sleeps. Analogue of a cooperative busy-thread calling into the
// scheduler at its loop body instead of being timer-preempted mid-instruction.
func (c *ThreadContext) Delay(d time.Duration) {
	const slice = 500 * time.Microsecond
	deadline := time.Now().Add(d)
	for {
		c.Checkpoint()
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		if remaining > slice {
			remaining = slice
		}
		time.Sleep(remaining)
	}
}

// Join blocks until target has ended.
func (c *ThreadContext) Join(target *thread.Descriptor) error {
	return c.sched.Join(c.desc, target)
}
