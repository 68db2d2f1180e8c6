// Package scheduler is the Go port of sys/scheduler.c: a single ready pool,
// a current/next pointer pair, and a tick handler that requests a deferred
// context switch a separate, lower-priority "pend" handler actually
// performs — mirroring SysTick_Handler requesting PendSV.
//
// A hosted Go process cannot trap an arbitrary instruction the way a
// Cortex-M exception does, so preemption here is cooperative: a thread
// body must call ThreadContext.Checkpoint (directly, or through Delay) at
// its own loop bodies for a pending switch to actually take effect. Every
// other piece of state and control flow below — the ready pool, sched_lock,
// the tick/pend split, the join wait-queue, the end-of-thread path — is the
// direct port of the original. This is the one deliberate deviation from
// literal hardware semantics and is the resolution to the framing question
// spec.md's open questions left unaddressed for a hosted target.
package scheduler

import (
	"errors"
	"time"

	"github.com/pryga/mctask/internal/constants"
	"github.com/pryga/mctask/internal/diag"
	"github.com/pryga/mctask/internal/irqlock"
	"github.com/pryga/mctask/internal/logging"
	"github.com/pryga/mctask/internal/slist"
	"github.com/pryga/mctask/internal/thread"
)

// ErrDeadlock is returned when a thread attempts to join itself, the Go
// analogue of thread_join()'s -EDEADLK.
var ErrDeadlock = errors.New("thread: join would deadlock")

// cleanupTrampolinePC is the sentinel "address" recorded as the initial
// frame's lr, standing in for m_thread_cleanup. Nothing dereferences
// it — see internal/thread's note on why the frame fields are diagnostic
// only under the cooperative model.
const cleanupTrampolinePC uint32 = 0xCE000000

// Scheduler owns the ready pool and the current/next thread pointers,
// guarded throughout by an IRQ-safe spin lock (sched_lock in the
// original).
type Scheduler struct {
	pool *thread.Pool

	lock  irqlock.SpinLock
	ready slist.List

	current *thread.Descriptor
	next    *thread.Descriptor

	pendCh chan struct{}
	stopCh chan struct{}

	counters *diag.Counters
	log      *logging.Logger
}

// New builds a scheduler over pool with main as the initial current
// thread, matching scheduler_init()'s g_current_thread = &main_thread.
func New(pool *thread.Pool, counters *diag.Counters, log *logging.Logger) *Scheduler {
	s := &Scheduler{
		pool:     pool,
		pendCh:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		counters: counters,
		log:      log,
	}
	slist.Init(&s.ready)
	s.current = pool.Main()
	return s
}

// Start launches the tick and pend handler goroutines. Analogue of
// scheduler_init()'s nrfx_systick_init plus arming SysTick->LOAD.
func (s *Scheduler) Start() {
	go s.tickLoop()
	go s.pendLoop()
}

// Stop halts both handler goroutines.
func (s *Scheduler) Stop() {
	close(s.stopCh)
}

// Current returns the thread the scheduler currently considers active.
func (s *Scheduler) Current() *thread.Descriptor {
	s.lock.LockIRQ()
	defer s.lock.UnlockIRQ()
	return s.current
}

// MainContext returns a ThreadContext bound to the reserved main
// descriptor, for callers outside any created-thread goroutine — the host
// program's own entry point — that still want to Checkpoint, Delay, or
// Join the way a thread body would.
func (s *Scheduler) MainContext() *ThreadContext {
	return &ThreadContext{sched: s, desc: s.pool.Main()}
}

// ReadyDepth returns the number of descriptors currently parked in the
// ready pool, for tests asserting fairness without racing sched_lock.
func (s *Scheduler) ReadyDepth() int {
	s.lock.LockIRQ()
	defer s.lock.UnlockIRQ()
	n := 0
	for node := slist.HeadPeek(&s.ready); node != nil; node = slist.NextPeek(node) {
		n++
	}
	return n
}

// debugf logs at Debug level through s.log if one was provided; s.log is
// nil in scheduler tests built without logging, so every call site must go
// through this rather than calling s.log directly.
func (s *Scheduler) debugf(msg string, args ...any) {
	if s.log != nil {
		s.log.Debug(msg, args...)
	}
}

// Checkpoint is the cooperative preemption point: a thread body calls this
// from its own loop, and if the scheduler has already moved current
// somewhere else, the caller parks here until it is resumed. Returns
// immediately if the caller is still (or again) current.
func (s *Scheduler) Checkpoint(d *thread.Descriptor) {
	for {
		s.lock.LockIRQ()
		cur := s.current
		s.lock.UnlockIRQ()
		if cur == d {
			return
		}
		d.WaitForResume()
	}
}

// Create acquires a descriptor, enqueues it ready, and launches its
// goroutine, the Go analogue of thread_create(). fn receives a
// *ThreadContext so it can call Checkpoint/Delay/Join against this
// scheduler — the original has no such parameter because the firmware has
// exactly one scheduler; this module is written to support more than one
// in tests, so the handle is threaded through explicitly instead of living
// in a package-level global.
func (s *Scheduler) Create(fn func(*ThreadContext), stackSize uint32) (*thread.Descriptor, error) {
	if stackSize == 0 {
		stackSize = constants.DefaultStackSize
	}

	var d *thread.Descriptor
	entry := func() { fn(&ThreadContext{sched: s, desc: d}) }

	created, err := s.pool.Acquire(entry, stackSize, cleanupTrampolinePC)
	if err != nil {
		return nil, err
	}
	d = created

	s.lock.LockIRQ()
	d.ClearStatus(thread.StatusStarting)
	d.OrStatus(thread.StatusReady)
	slist.TailPut(&s.ready, d.PoolNode())
	if s.counters != nil {
		s.counters.ReadyEnqueues.Add(1)
	}
	s.lock.UnlockIRQ()

	s.debugf("thread created", "id", d.ID, "stack_size", stackSize)

	go s.run(d)

	return d, nil
}

// run is the goroutine body backing every created thread: park until the
// scheduler first makes this descriptor current, run its entry function,
// then fall into the cleanup trampoline's job once the entry returns.
func (s *Scheduler) run(d *thread.Descriptor) {
	d.WaitForResume()
	d.Entry()
	d.MarkBodyReturned()
	s.threadEnd(d)
}

// Join blocks caller until target exits, the Go analogue of thread_join().
// Returns immediately (nil) if target has already ended or was never
// created. Returns ErrDeadlock if caller attempts to join itself.
func (s *Scheduler) Join(caller, target *thread.Descriptor) error {
	if caller == target {
		return ErrDeadlock
	}

	s.lock.LockIRQ()
	st := target.Status()
	if st.Has(thread.StatusNone) || st.Has(thread.StatusEnded) {
		s.lock.UnlockIRQ()
		return nil
	}

	thread.AddWaiter(target, caller)
	caller.ClearStatus(thread.StatusActive)
	caller.OrStatus(thread.StatusWaiting)

	// caller is leaving the run state to block, not yielding its turn: it
	// must not be handed back to scheduleLocked's ordinary re-enqueue path
	// (that's what tickLoop uses for a plain round-robin continuation).
	// Reusing the same "current does not become ready" branch threadEnd
	// uses for an ending thread guarantees caller can only be resumed once
	// target's wait queue is drained — never by an ordinary tick cycling
	// caller's pool node back through the ready pool while it is still
	// parked on target.waitQueue.
	s.scheduleLocked(false)
	s.swapLocked()
	resumeNext := s.current
	s.lock.UnlockIRQ()

	s.debugf("thread joining", "caller", caller.ID, "target", target.ID)

	if s.counters != nil {
		s.counters.JoinWaits.Add(1)
	}

	resumeNext.Resume()
	caller.WaitForResume()
	return nil
}

// threadEnd is the Go analogue of sched_thread_end(), called once a
// thread's entry function returns (the cleanup trampoline's job). REDESIGN
// FLAG applied: the descriptor is only returned to the free pool (Release)
// after the switch away from it has been committed by swapLocked, and before
// the next thread is signaled, so a joiner that resumes already finds it
// free — not while it is still current, as the original does (its own comment
// there calls this "wrong... release of a thread that is still current
// thread").
func (s *Scheduler) threadEnd(d *thread.Descriptor) {
	s.lock.LockIRQ()
	d.OrStatus(thread.StatusEnded)

	for _, waiter := range thread.DrainWaiters(d) {
		waiter.ClearStatus(thread.StatusWaiting)
		waiter.OrStatus(thread.StatusReady)
		slist.TailPut(&s.ready, waiter.PoolNode())
		if s.counters != nil {
			s.counters.ReadyEnqueues.Add(1)
		}
	}

	isCurrent := s.current == d
	var resumeNext *thread.Descriptor
	if isCurrent {
		if s.scheduleLocked(false) {
			s.swapLocked()
			resumeNext = s.current
		}
	} else {
		s.readyRemoveLocked(d)
	}

	if s.counters != nil {
		s.counters.ThreadsEnded.Add(1)
	}
	s.lock.UnlockIRQ()

	s.debugf("thread ended", "id", d.ID)

	if !d.IsMain() && !d.IsIdle() {
		s.pool.Release(d)
	}

	if resumeNext != nil {
		resumeNext.Resume()
	}
}

// scheduleLocked implements schedule(is_ending) from scheduler.c. Caller
// must hold s.lock. requeueCurrent selects which of the original's two call
// sites this is: true is the ordinary tick continuation (schedule(false) in
// the C, re-enqueuing current onto the ready pool before picking next);
// false is any case where current is leaving the run state without
// becoming ready again — both an ending thread (schedule(true) in the C)
// and, here, a thread blocking in Join share that same "do not re-enqueue"
// shape, so both pass false. Returns whether a switch was decided; if so,
// s.next holds the chosen descriptor and swapLocked must be called to
// commit it. With requeueCurrent false this always returns true: there is
// always somewhere for current to go (the next ready descriptor, or idle
// if the ready pool is empty), since current cannot stay current.
func (s *Scheduler) scheduleLocked(requeueCurrent bool) bool {
	node := slist.HeadGet(&s.ready)
	if node == nil {
		if requeueCurrent {
			return false
		}
		s.next = s.pool.Idle()
		return true
	}

	next := thread.DescriptorFromPoolNode(node)
	next.ClearStatus(thread.StatusReady)

	if requeueCurrent && s.current != nil && s.current != s.pool.Idle() {
		s.current.ClearStatus(thread.StatusActive)
		s.current.OrStatus(thread.StatusReady)
		slist.TailPut(&s.ready, s.current.PoolNode())
		if s.counters != nil {
			s.counters.ReadyEnqueues.Add(1)
		}
	}

	s.next = next
	return true
}

// swapLocked commits a pending s.next as the new current, the Go analogue
// of swap_threads(): clear ACTIVE on the old current, set it on the new
// one, and fence around the transition the way the original brackets it
// with __DSB()/__ISB() after requesting PendSV.
func (s *Scheduler) swapLocked() {
	irqlock.DMB()
	old := s.current
	s.current = s.next
	s.next = nil
	if old != nil {
		old.ClearStatus(thread.StatusActive)
	}
	s.current.OrStatus(thread.StatusActive)
	irqlock.DSB()
	irqlock.ISB()
	if s.counters != nil {
		s.counters.ContextSwitches.Add(1)
	}
	if old != nil {
		s.debugf("context switch", "from", old.ID, "to", s.current.ID)
	}
}

// readyRemoveLocked removes d from the ready pool if present, the Go
// analogue of sched_ready_remove().
func (s *Scheduler) readyRemoveLocked(d *thread.Descriptor) {
	slist.Remove(&s.ready, d.PoolNode())
	d.ClearStatus(thread.StatusReady)
}

// requestPend signals the pend handler, coalescing with any already-
// pending request exactly as setting an already-set PENDSVSET bit is a
// no-op on real hardware.
func (s *Scheduler) requestPend() {
	select {
	case s.pendCh <- struct{}{}:
	default:
	}
}

// tickLoop is the Go analogue of SysTick_Handler: fires on a simulated
// timer, makes the scheduling decision under sched_lock, and — if a switch
// is warranted — requests the pend handler perform it. The timer starts
// with the long initial reload and reprograms to the short runtime reload
// after its first fire, mirroring scheduler_init() priming
// SysTick->LOAD = 0x1<<24 before the steady-state 0xFFFF reload
// SysTick_Handler itself writes back.
func (s *Scheduler) tickLoop() {
	ticker := time.NewTicker(constants.ReloadDuration(constants.TickReloadInitial))
	defer ticker.Stop()

	reprogrammed := false
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if !reprogrammed {
				ticker.Reset(constants.ReloadDuration(constants.TickReloadRuntime))
				reprogrammed = true
			}

			if s.counters != nil {
				s.counters.Ticks.Add(1)
			}

			s.lock.LockIRQ()
			switched := s.scheduleLocked(true)
			s.lock.UnlockIRQ()

			if switched {
				s.requestPend()
				irqlock.DSB()
				irqlock.ISB()
			}
		}
	}
}

// pendLoop is the Go analogue of the PendSV handler: it performs the
// context switch the tick handler only requested.
func (s *Scheduler) pendLoop() {
	for {
		select {
		case <-s.stopCh:
			return
		case <-s.pendCh:
			s.lock.LockIRQ()
			s.swapLocked()
			resumeNext := s.current
			s.lock.UnlockIRQ()
			resumeNext.Resume()
		}
	}
}
