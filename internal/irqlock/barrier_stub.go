//go:build !linux || !cgo || !amd64

package irqlock

import "runtime"

// DMB is the non-cgo fallback: the Go memory model already orders goroutine
// communication through channels and atomics, so the barrier degrades to a
// scheduling point rather than a no-op, keeping its call sites meaningful
// under race detection.
func DMB() {
	runtime.Gosched()
}

// DSB is the non-cgo fallback, same rationale as DMB.
func DSB() {
	runtime.Gosched()
}

// ISB is the non-cgo fallback, same rationale as DMB.
func ISB() {
	runtime.Gosched()
}
