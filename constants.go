package mctask

import "github.com/pryga/mctask/internal/constants"

// Re-exported compile-time configuration, spec.md §6.4.
const (
	// MaxThreads is the number of user-created thread descriptors the
	// pool holds, not counting main and idle.
	MaxThreads = constants.MaxThreads

	// PoolCapacity is MaxThreads plus the two reserved descriptors.
	PoolCapacity = constants.PoolCapacity

	// DefaultStackSize is the default byte size of a created thread's
	// stack when Kernel.Create is called with stackSize == 0.
	DefaultStackSize = constants.DefaultStackSize

	// IdleStackSize is the idle thread's reserved stack size.
	IdleStackSize = constants.IdleStackSize

	// DebugEnabled mirrors THREAD_DEBUG_ENABLED: fills the initial frame
	// with sentinel words and makes Debug the default log level. The
	// diagnostic counters are kept whatever its value.
	DebugEnabled = constants.DebugEnabled
)
