// Package assert implements the assertion-class checks spec.md §7 calls
// for: internal invariant violations (a nil pool slot, more than one ACTIVE
// thread, a nil current-thread pointer) are not recoverable errors — the
// system halts. Mirrors the firmware's assert()-then-spin contract, ported
// as panic rather than an infinite loop since a hosted process has no
// watchdog to wait out.
package assert

import "fmt"

// Require panics with msg if cond is false. Callers use this exactly where
// the firmware's sys/slist.c and sys/thread.c call assert(): conditions
// that can only be false if the kernel itself is broken, never as a result
// of caller-supplied bad input (those return structured errors instead, see
// the root package's errors.go).
func Require(cond bool, msg string, args ...any) {
	if cond {
		return
	}
	panic("mctask: invariant violated: " + fmt.Sprintf(msg, args...))
}
