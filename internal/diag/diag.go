// Package diag holds the diagnostic counters: a stable per-thread ID (the
// firmware has none — descriptors are identified by pool index alone, which
// the REDESIGN notes call out as insufficient once slots are reused) and
// process-wide lifecycle counters. Both are always maintained; the
// DebugEnabled configuration flag does not switch them on or off.
package diag

import "sync/atomic"

var nextThreadID atomic.Uint64

// NextThreadID returns a monotonically increasing, never-reused identifier
// for a newly created thread descriptor. Unlike a pool index, this survives
// slot reuse, so log lines and join errors can name "thread 7" unambiguously
// even after slot 1 has been recycled five times.
func NextThreadID() uint64 {
	return nextThreadID.Add(1)
}

// Counters tracks scheduler-lifecycle events for diagnostics, the
// always-available analogue of the firmware's tick_cnt debug global.
type Counters struct {
	Ticks          atomic.Uint64 // SysTick-equivalent fires.
	ContextSwitches atomic.Uint64 // Completed pend-handler switches.
	ThreadsCreated atomic.Uint64
	ThreadsEnded   atomic.Uint64
	ReadyEnqueues  atomic.Uint64
	JoinWaits      atomic.Uint64 // Times a caller blocked in thread_join.
}

// Snapshot is a point-in-time copy of Counters, safe to log or compare in
// tests without racing the live atomics.
type Snapshot struct {
	Ticks           uint64
	ContextSwitches uint64
	ThreadsCreated  uint64
	ThreadsEnded    uint64
	ReadyEnqueues   uint64
	JoinWaits       uint64
}

// Snapshot reads all counters into a plain struct.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Ticks:           c.Ticks.Load(),
		ContextSwitches: c.ContextSwitches.Load(),
		ThreadsCreated:  c.ThreadsCreated.Load(),
		ThreadsEnded:    c.ThreadsEnded.Load(),
		ReadyEnqueues:   c.ReadyEnqueues.Load(),
		JoinWaits:       c.JoinWaits.Load(),
	}
}
