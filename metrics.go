package mctask

import (
	"fmt"

	"github.com/pryga/mctask/internal/diag"
)

// Stats is a point-in-time snapshot of the kernel's diagnostic counters,
// the always-available promotion of the original firmware's
// THREAD_DEBUG_ENABLED globals (tick_cnt, m_thread_end_count). Kernel holds
// the live atomics (internal/diag.Counters); Stats is the immutable copy
// callers log or assert on.
type Stats diag.Snapshot

// String renders the snapshot for log lines as key/value fields.
func (s Stats) String() string {
	return fmt.Sprintf(
		"ticks=%d switches=%d created=%d ended=%d ready_enqueues=%d join_waits=%d",
		s.Ticks, s.ContextSwitches, s.ThreadsCreated, s.ThreadsEnded, s.ReadyEnqueues, s.JoinWaits,
	)
}
