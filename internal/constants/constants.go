// Package constants carries the compile-time configuration table from
// spec.md §6.4. Every value here is the Go-process analogue of a firmware
// #define: fixed at build time, never touched by a running kernel.
package constants

import "time"

// Thread pool sizing.
const (
	// MaxThreads is the number of user-created thread descriptors the pool
	// holds, not counting main and idle.
	MaxThreads = 4

	// PoolCapacity is MaxThreads plus the two reserved descriptors (main,
	// idle). Sum of {free, ready, wait-queues, current, idle} must always
	// equal this.
	PoolCapacity = MaxThreads + 2

	// DefaultStackSize is the default byte size of a created thread's stack.
	DefaultStackSize = 1024

	// MainStackSize is nominal only: the main thread's stack is owned by
	// the host goroutine, never synthesized.
	MainStackSize = 512

	// IdleStackSize must be at least FrameTotalBytes plus a safety margin.
	IdleStackSize = FrameTotalBytes + 128

	// StackAlignment is the required alignment, in bytes, of every thread
	// stack region.
	StackAlignment = 8
)

// Initial register frame sizes (see internal/frame), duplicated here as
// untyped constants so internal/constants has no import cycle back onto
// internal/frame.
const (
	// FrameHWBytes is the size of the hardware-saved portion of the
	// initial stack frame: r0, r1, r2, r3, r12, lr, pc, xpsr (8 words).
	FrameHWBytes = 32

	// FrameSWBytes is the size of the software-saved portion: r4..r11,
	// r14-sentinel (9 words).
	FrameSWBytes = 36

	// FrameTotalBytes is the combined initial frame size.
	FrameTotalBytes = FrameHWBytes + FrameSWBytes
)

// DebugEnabled mirrors the firmware's THREAD_DEBUG_ENABLED / DEBUG_ENABLED
// compile-time switch: fills the initial frame with sentinel words and makes
// Debug the default log level. The diagnostic counters (end count, stable
// IDs) are kept whatever its value; this flag does not disable them.
const DebugEnabled = true

// Tick reload values, in ticks. The scheduler starts with the long initial
// period (so nothing preempts before the first thread is created) and
// reprograms to the short runtime slice after the first tick fires.
const (
	// TickReloadInitial is 2^24 - 1, the long startup period.
	TickReloadInitial = (1 << 24) - 1

	// TickReloadRuntime is 2^16 - 1, the nominal round-robin slice.
	TickReloadRuntime = (1 << 16) - 1

	// TickUnit scales a raw tick count into a wall-clock duration for the
	// simulated timer. The ratio between TickReloadInitial and
	// TickReloadRuntime (2^8) is what matters, not the absolute values a
	// real 24-bit SysTick counter would use — one tick is deliberately a
	// single nanosecond here so the "long startup slice, short runtime
	// slice" behavior plays out in milliseconds rather than minutes.
	TickUnit = 1 * time.Nanosecond
)

// ReloadDuration converts a reload value expressed in ticks into the
// wall-clock period the simulated timer should use.
func ReloadDuration(reloadTicks uint32) time.Duration {
	return time.Duration(reloadTicks) * TickUnit
}
