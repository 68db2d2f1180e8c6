package mctask

import (
	"sync/atomic"
	"testing"
	"time"
)

// NewTestKernel builds a Kernel and registers t.Cleanup to Stop it, a
// ready-to-run fixture in place of real hardware.
func NewTestKernel(t *testing.T) *Kernel {
	t.Helper()
	k := New()
	t.Cleanup(k.Stop)
	return k
}

// BusyThread returns a ThreadFunc that increments counter iterations times,
// checkpointing every iteration so the scheduler can interleave other
// ready threads — the fixture behind the round-robin fairness scenario in
// spec.md §8 (S1).
func BusyThread(iterations int, counter *atomic.Uint64) ThreadFunc {
	return func(ctx *ThreadContext) {
		for i := 0; i < iterations; i++ {
			counter.Add(1)
			ctx.Checkpoint()
		}
	}
}

// WaitUntilEnded blocks, polling, until t has ended or the timeout elapses.
// Returns whether t ended in time. Useful in tests that want to observe
// end-of-thread state without blocking the test goroutine inside Join.
func WaitUntilEnded(t *Thread, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if t.Ended() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return t.Ended()
}
