package irqlock

import (
	"sync"
	"sync/atomic"
)

// SpinLock is the Go port of spin_lock_t (sys/spin_lock.c): a single bit of
// mutual exclusion with three acquire/release pairings layered over one
// underlying state word, exactly as the firmware layers spin_lock_irq and
// spin_lock_irq_store over the same ldrex/strex primitive.
//
//   - Lock/Unlock: thread context. Contention parks the caller instead of
//     burning CPU, the WFE/SEV pairing from spin_lock()/spin_unlock().
//   - LockNoWFE/UnlockNoSEV: IRQ context. Busy-waits only; never parks,
//     since nothing may block a handler. Analogue of spin_lock_no_wfe()/
//     spin_unlock_no_sev(). UnlockNoSEV skips waking Lock's parked waiters
//     because nothing using this pairing ever parks — the event-less
//     release is safe precisely because there is no WFE-sleeper to miss it.
//   - LockIRQ/UnlockIRQ and LockIRQStore/UnlockIRQRestore: mask interrupts
//     for the duration, composing the above with irq.go's mask primitives.
type SpinLock struct {
	locked atomic.Bool
	mu     sync.Mutex
	cond   *sync.Cond
}

func (s *SpinLock) initCond() *sync.Cond {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cond == nil {
		s.cond = sync.NewCond(&s.mu)
	}
	return s.cond
}

// Lock acquires the lock, parking the caller while it is held by someone
// else. Analogue of spin_lock(): ldrex/teq/wfe/strex retry with a trailing
// DMB.
func (s *SpinLock) Lock() {
	cond := s.initCond()
	for !s.locked.CompareAndSwap(false, true) {
		cond.L.Lock()
		for s.locked.Load() {
			cond.Wait()
		}
		cond.L.Unlock()
	}
	DMB()
}

// Unlock releases the lock and wakes any goroutine parked in Lock.
// Analogue of spin_unlock(): DMB, clear, DSB, SEV.
func (s *SpinLock) Unlock() {
	DMB()
	s.mu.Lock()
	s.locked.Store(false)
	cond := s.cond
	s.mu.Unlock()
	DSB()
	if cond != nil {
		cond.Broadcast()
	}
}

// LockNoWFE busy-waits for the lock without ever parking. Only safe to call
// where Lock is never called concurrently against the same SpinLock from a
// context that itself cannot be preempted — i.e. from IRQ context, matching
// the firmware's spin_lock_no_wfe() contract.
func (s *SpinLock) LockNoWFE() {
	for !s.locked.CompareAndSwap(false, true) {
	}
	DMB()
}

// UnlockNoSEV releases the lock without waking Lock's parked waiters.
// Analogue of spin_unlock_no_sev().
func (s *SpinLock) UnlockNoSEV() {
	DMB()
	s.locked.Store(false)
}

// LockIRQ disables interrupts then acquires the lock via the busy variant.
// Analogue of spin_lock_irq().
func (s *SpinLock) LockIRQ() {
	IRQDisable()
	s.LockNoWFE()
}

// UnlockIRQ releases via UnlockNoSEV then re-enables interrupts. Analogue
// of spin_unlock_irq().
func (s *SpinLock) UnlockIRQ() {
	s.UnlockNoSEV()
	IRQEnable()
}

// LockIRQStore saves and masks the interrupt state, then acquires the lock
// via the parking variant, matching the firmware's spin_lock_irq_store()
// (which, notably, calls the WFE-capable spin_lock() rather than the
// no-wfe variant — preserved here rather than "fixed", since nesting under
// an already-disabled mask never actually parks in practice).
func (s *SpinLock) LockIRQStore() uint32 {
	flags := IRQDisableStore()
	s.Lock()
	return flags
}

// UnlockIRQRestore releases the lock then restores a previously saved
// interrupt mask. Analogue of spin_unlock_irq_restore().
func (s *SpinLock) UnlockIRQRestore(flags uint32) {
	s.Unlock()
	IRQRestore(flags)
}
