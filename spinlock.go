package mctask

import "github.com/pryga/mctask/internal/irqlock"

// SpinLock is the public thread-context spin lock: a single word of mutual
// exclusion that parks the caller on contention rather than busy-waiting.
// Per spec.md §9's open question ("treat the thread-context spin-lock as
// the supported primitive and do not ship a mutex with this signature"),
// this — not a Mutex — is the synchronization type mctask ships.
type SpinLock struct {
	inner irqlock.SpinLock
}

// Lock acquires the lock, parking the caller while it is held elsewhere.
func (l *SpinLock) Lock() { l.inner.Lock() }

// Unlock releases the lock and wakes any parked waiter.
func (l *SpinLock) Unlock() { l.inner.Unlock() }

// SpinLockIRQ is the IRQ-safe spin lock flavor: usable from thread or
// simulated-interrupt context, and masks interrupts for the duration of the
// critical section. Lock busy-waits on contention and never parks; LockStore
// acquires through the parking thread-context path instead.
type SpinLockIRQ struct {
	inner irqlock.SpinLock
}

// Lock masks interrupts then busy-waits for the lock.
func (l *SpinLockIRQ) Lock() { l.inner.LockIRQ() }

// Unlock releases the lock then unmasks interrupts.
func (l *SpinLockIRQ) Unlock() { l.inner.UnlockIRQ() }

// LockStore masks interrupts (saving the prior mask state for nesting)
// then parks for the lock, returning the mask to pass to UnlockRestore.
// Nestable: acquiring a second SpinLockIRQ while one LockStore-acquired
// mask is already live composes correctly via the returned value, per
// spec.md §4.2's nesting contract (scenario S6).
func (l *SpinLockIRQ) LockStore() uint32 { return l.inner.LockIRQStore() }

// UnlockRestore releases the lock and restores a mask previously returned
// by LockStore.
func (l *SpinLockIRQ) UnlockRestore(mask uint32) { l.inner.UnlockIRQRestore(mask) }

// IRQDisableStore masks interrupts process-wide and returns the prior
// mask, the public form of irq_disable_store() for callers that need the
// mask primitive without a lock attached.
func IRQDisableStore() uint32 { return irqlock.IRQDisableStore() }

// IRQRestore restores a mask previously returned by IRQDisableStore.
func IRQRestore(mask uint32) { irqlock.IRQRestore(mask) }
