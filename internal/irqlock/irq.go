// Package irqlock models the firmware's single-core interrupt mask and its
// three spin-lock flavors (sys/irq.h, sys/spin_lock.c). There is exactly one
// PRIMASK-equivalent in the whole process: interrupt state is process-wide,
// not per-goroutine, matching the single-core hardware this was ported from.
package irqlock

import "sync/atomic"

// irqMask is 1 when "interrupts" are disabled process-wide, 0 otherwise.
// It is the Go analogue of the CPU's PRIMASK register.
var irqMask atomic.Uint32

// IRQDisable masks interrupts unconditionally, discarding the prior state.
// Analogue of cpsid i.
func IRQDisable() {
	irqMask.Store(1)
}

// IRQEnable unmasks interrupts unconditionally. Analogue of cpsie i.
func IRQEnable() {
	irqMask.Store(0)
}

// IRQDisableStore masks interrupts and returns the prior mask state, so the
// caller can restore it later with IRQRestore. Analogue of
// irq_disable_store(): mrs + cpsid i.
func IRQDisableStore() uint32 {
	return irqMask.Swap(1)
}

// IRQRestore sets the mask back to a value previously returned by
// IRQDisableStore. Analogue of irq_enable_restore(): msr primask, flags.
func IRQRestore(flags uint32) {
	irqMask.Store(flags)
}

// Disabled reports whether interrupts are currently masked.
func Disabled() bool {
	return irqMask.Load() != 0
}
