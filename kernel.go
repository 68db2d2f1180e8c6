// Package mctask implements a minimal preemptive multitasking kernel: a
// statically-sized thread pool, a round-robin scheduler driven by a
// periodic tick, join semantics, and interrupt-safe spin locks. It is a
// host-process simulation of the thread-lifecycle/scheduler/
// synchronization triad found in sys/thread.c and sys/scheduler.c: threads
// are goroutines cooperatively time-sliced by a kernel singleton that
// plays the role of the single core, with a simulated tick timer and a
// deferred "pend" handler goroutine standing in for SysTick_Handler and
// PendSV_Handler. See SPEC_FULL.md §0 for the framing this rests on.
package mctask

import (
	"github.com/pryga/mctask/internal/diag"
	"github.com/pryga/mctask/internal/logging"
	"github.com/pryga/mctask/internal/scheduler"
	"github.com/pryga/mctask/internal/thread"
)

// ThreadFunc is the signature a created thread's entry point must have.
// The *ThreadContext argument gives the thread body the cooperative
// preemption and blocking primitives (Checkpoint, Delay, Join) that real
// hardware supplies for free via timer interrupts.
type ThreadFunc func(*ThreadContext)

// Thread is the public handle to a created thread: an opaque identity
// usable with Join and logged for diagnostics. Threads are never copied
// and never outlive the kernel's descriptor pool.
type Thread struct {
	desc *thread.Descriptor
}

// ID returns the thread's stable, never-reused identifier.
func (t *Thread) ID() uint64 {
	if t == nil || t.desc == nil {
		return 0
	}
	return t.desc.ID
}

// Ended reports whether the thread has returned from its entry function.
func (t *Thread) Ended() bool {
	return t != nil && t.desc != nil && t.desc.Status().Has(thread.StatusEnded)
}

// Kernel is the scheduler context singleton described in spec.md §9:
// descriptor pool, ready pool, current/next pointers, and sched_lock, all
// with lifecycle from New to process exit. There is no teardown API for
// any of that state beyond Stop, which only halts the tick/pend goroutines
// so tests can run more than one kernel per process.
type Kernel struct {
	pool     *thread.Pool
	sched    *scheduler.Scheduler
	counters diag.Counters
	log      *logging.Logger
}

// New builds and starts a Kernel: populates the descriptor pool (main +
// idle + MaxThreads free slots, per spec.md §4.3's thread_init), wires the
// scheduler over it with main as the initial current thread, and launches
// the tick and pend handler goroutines. Analogue of thread_init() followed
// by scheduler_init() and enabling the tick interrupt.
func New() *Kernel {
	log := logging.Default()
	k := &Kernel{log: log}
	k.pool = thread.NewPool(&k.counters)
	k.sched = scheduler.New(k.pool, &k.counters, log)

	k.sched.Start()
	log.Debug("kernel started")
	return k
}

// Stop halts the tick and pend handler goroutines. Once stopped, a Kernel
// must not be reused; build a new one with New.
func (k *Kernel) Stop() {
	k.sched.Stop()
	k.log.Debug("kernel stopped", "stats", k.Stats())
}

// Create acquires a descriptor from the free pool, synthesizes its initial
// register frame, enqueues it ready, and launches its goroutine — the Go
// analogue of thread_create(). Returns an *Error with Code ErrCodeNoMem if
// the pool is exhausted.
func (k *Kernel) Create(fn ThreadFunc, stackSize uint32) (*Thread, error) {
	d, err := k.sched.Create(func(ctx *scheduler.ThreadContext) {
		fn(&ThreadContext{inner: ctx})
	}, stackSize)
	if err != nil {
		return nil, Wrap("thread_create", err)
	}
	return &Thread{desc: d}, nil
}

// MainContext returns a ThreadContext for the host goroutine that called
// New — the "main" thread descriptor spec.md reserves alongside idle.
// Use it to Join created threads or Checkpoint from the entry-point
// goroutine itself, the same way the original's main() calls thread_join()
// directly rather than through a spawned thread body.
func (k *Kernel) MainContext() *ThreadContext {
	return &ThreadContext{inner: k.sched.MainContext()}
}

// Current returns the descriptor the scheduler currently considers active.
func (k *Kernel) Current() *Thread {
	return &Thread{desc: k.sched.Current()}
}

// Stats returns a point-in-time snapshot of the kernel's diagnostic
// counters: ticks observed, context switches completed, threads created/
// ended, ready-pool enqueues, and join-wait events. The Go-native promotion
// of the original's #ifdef THREAD_DEBUG_ENABLED counters to a first-class,
// always-available call — see SPEC_FULL.md §4.
func (k *Kernel) Stats() Stats {
	return Stats(k.counters.Snapshot())
}

// ReadyDepth returns the number of threads currently waiting in the ready
// pool.
func (k *Kernel) ReadyDepth() int {
	return k.sched.ReadyDepth()
}
