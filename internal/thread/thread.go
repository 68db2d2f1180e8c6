// Package thread implements the thread descriptor pool from sys/thread.c:
// a fixed-capacity array of descriptors, a free list threads are drawn from
// and returned to, and the per-thread wait queue thread_join()/
// sched_thread_end() drain. The ready pool itself, and everything that
// decides *which* descriptor runs next, belongs to internal/scheduler —
// this package only owns descriptor identity, status, and membership
// plumbing, the same split spec.md draws between the thread module
// (~30% of budget) and the scheduler (~45%).
//
// REDESIGN FLAG applied: THREAD_STATUS_STARTING and THREAD_STATUS_READY are
// given distinct bits below. In the original firmware they alias the same
// bit, so thread_create()'s trailing "clear STARTING" also clears the READY
// bit sched_ready_enqueu() just set, leaving a newly created thread with no
// status bits at all. Kept distinct here.
package thread

import (
	"sync/atomic"
	"unsafe"

	"github.com/pryga/mctask/internal/assert"
	"github.com/pryga/mctask/internal/constants"
	"github.com/pryga/mctask/internal/diag"
	"github.com/pryga/mctask/internal/frame"
	"github.com/pryga/mctask/internal/irqlock"
	"github.com/pryga/mctask/internal/slist"
)

// Status is the thread status bitmask (sys/thread.h THREAD_STATUS_T).
type Status uint32

const (
	StatusNone     Status = 1 << 0
	StatusStarting Status = 1 << 1
	StatusReady    Status = 1 << 2
	StatusActive   Status = 1 << 3
	StatusPending  Status = 1 << 4
	StatusWaiting  Status = 1 << 5
	StatusEnded    Status = 1 << 6
)

// Has reports whether bit is set in s.
func (s Status) Has(bit Status) bool {
	return s&bit != 0
}

// Descriptor is the Go port of thread_ctx_t joined with thread_t: the
// original splits "scheduling context" from "thread identity" into two
// linked structs reached via container-of macros (THREAD_CONTEXT_GET /
// THREAD_OBJECT_GET); here they are one struct; callers that need
// the node->owner recovery still go through DescriptorFromPoolNode /
// DescriptorFromWaitNode, kept for fidelity to that pattern and because
// internal/scheduler's ready pool stores *slist.Node, not *Descriptor.
type Descriptor struct {
	// ID is a stable identity that, unlike the original's pool index,
	// survives slot reuse. See internal/diag.
	ID uint64

	status atomic.Uint32

	// poolNode is this descriptor's membership node in whichever single
	// pool currently owns it: the free pool, or the scheduler's ready
	// pool. A descriptor is never on both at once.
	poolNode slist.Node

	// waitNode is this descriptor's membership node when it is itself
	// parked on another descriptor's waitQueue (i.e. it called Join on
	// someone else).
	waitNode slist.Node

	// waitQueue holds the waitNodes of every descriptor blocked in Join
	// on this descriptor's completion.
	waitQueue slist.List

	// HW and SW are the synthesized initial register frame. Execution
	// itself runs as a goroutine (see internal/scheduler's Checkpoint
	// model), so these fields are not read by any dispatcher; they are
	// kept, and exercised by tests, as the direct port of
	// thread_ctx_init's frame synthesis.
	HW frame.HWFrame
	SW frame.SWFrame

	StackSize uint32
	Entry     func()

	// resume is closed-then-replaced each time the scheduler hands this
	// descriptor the CPU; Checkpoint blocks on it. Internal/scheduler's
	// cooperative substitute for an exception-return into a restored
	// register frame.
	resume chan struct{}

	// bodyReturned is closed by the goroutine running Entry once Entry
	// itself returns, the Go-native substitute for control falling into
	// m_thread_cleanup when a thread function returns on real hardware.
	bodyReturned chan struct{}

	isMain bool
	isIdle bool
}

// Status returns the descriptor's current status bits.
func (d *Descriptor) Status() Status {
	return Status(d.status.Load())
}

// SetStatus overwrites the status bits entirely.
func (d *Descriptor) SetStatus(s Status) {
	d.status.Store(uint32(s))
}

// OrStatus sets additional bits without clearing existing ones.
func (d *Descriptor) OrStatus(bits Status) {
	for {
		old := d.status.Load()
		if d.status.CompareAndSwap(old, old|uint32(bits)) {
			return
		}
	}
}

// ClearStatus clears bits without touching others.
func (d *Descriptor) ClearStatus(bits Status) {
	for {
		old := d.status.Load()
		if d.status.CompareAndSwap(old, old&^uint32(bits)) {
			return
		}
	}
}

// IsMain reports whether this is the reserved main-thread descriptor.
func (d *Descriptor) IsMain() bool { return d.isMain }

// IsIdle reports whether this is the reserved idle-thread descriptor.
func (d *Descriptor) IsIdle() bool { return d.isIdle }

// PoolNode exposes the free/ready-pool membership node so internal/scheduler
// can manage the ready list directly with internal/slist.
func (d *Descriptor) PoolNode() *slist.Node { return &d.poolNode }

// WaitNode exposes the wait-queue membership node for the same reason.
func (d *Descriptor) WaitNode() *slist.Node { return &d.waitNode }

// DescriptorFromPoolNode recovers the owning Descriptor from a node that
// came off a free or ready list, the Go analogue of THREAD_CONTEXT_GET.
func DescriptorFromPoolNode(node *slist.Node) *Descriptor {
	return slist.ContainerOf[Descriptor](node, poolNodeOffset)
}

// DescriptorFromWaitNode recovers the owning Descriptor from a node that
// came off a wait queue.
func DescriptorFromWaitNode(node *slist.Node) *Descriptor {
	return slist.ContainerOf[Descriptor](node, waitNodeOffset)
}

var (
	poolNodeOffset = unsafe.Offsetof(Descriptor{}.poolNode)
	waitNodeOffset = unsafe.Offsetof(Descriptor{}.waitNode)
)

// Pool is the fixed-capacity descriptor array plus the free list
// descriptors are drawn from and returned to (sys/thread.c's
// m_thread_pool / thread_init).
type Pool struct {
	descriptors [constants.PoolCapacity]Descriptor

	lock irqlock.SpinLock
	free slist.List

	counters *diag.Counters
}

// ErrNoMem is returned by Acquire when the free pool is empty, the Go
// analogue of thread_create()'s -ENOMEM path.
var ErrNoMem = newPoolError("thread pool exhausted")

type poolError struct{ msg string }

func newPoolError(msg string) error { return &poolError{msg: msg} }
func (e *poolError) Error() string  { return e.msg }

// NewPool builds a pool with two reserved descriptors (main, idle) and
// constants.MaxThreads free slots, matching thread_init()'s layout of
// THREAD_MAX_TOTAL = THREAD_MAX_NUM + 2.
func NewPool(counters *diag.Counters) *Pool {
	p := &Pool{counters: counters}
	slist.Init(&p.free)

	main := &p.descriptors[0]
	main.isMain = true
	main.ID = diag.NextThreadID()
	main.SetStatus(StatusActive)
	main.resume = make(chan struct{})
	main.bodyReturned = make(chan struct{})

	idle := &p.descriptors[1]
	idle.isIdle = true
	idle.ID = diag.NextThreadID()
	idle.SetStatus(StatusReady)
	idle.resume = make(chan struct{})
	idle.bodyReturned = make(chan struct{})

	for i := 2; i < constants.PoolCapacity; i++ {
		d := &p.descriptors[i]
		d.SetStatus(StatusNone)
		slist.TailPut(&p.free, &d.poolNode)
	}

	return p
}

// Main returns the reserved main-thread descriptor.
func (p *Pool) Main() *Descriptor { return &p.descriptors[0] }

// Idle returns the reserved idle-thread descriptor.
func (p *Pool) Idle() *Descriptor { return &p.descriptors[1] }

// Acquire removes a descriptor from the free pool and initializes its
// register frame and entry point, mirroring thread_create()'s
// thread_ctx_init call. The descriptor comes back with StatusStarting set;
// moving it onto the ready pool and clearing StatusStarting is
// internal/scheduler's job, matching the original's thread_create() body.
func (p *Pool) Acquire(entry func(), stackSize uint32, cleanupPC uint32) (*Descriptor, error) {
	p.lock.LockIRQ()
	node := slist.HeadGet(&p.free)
	p.lock.UnlockIRQ()

	if node == nil {
		return nil, ErrNoMem
	}

	d := DescriptorFromPoolNode(node)
	d.ID = diag.NextThreadID()
	d.Entry = entry
	d.StackSize = stackSize
	d.HW, d.SW = frame.Init(0, cleanupPC, constants.DebugEnabled)
	d.resume = make(chan struct{})
	d.bodyReturned = make(chan struct{})
	d.SetStatus(StatusStarting)
	slist.Init(&d.waitQueue)

	if p.counters != nil {
		p.counters.ThreadsCreated.Add(1)
	}

	return d, nil
}

// Release returns a descriptor to the free pool, leaving it marked
// StatusEnded until Acquire reinitializes it. REDESIGN FLAG applied:
// the original's sched_thread_end() calls the equivalent of this before
// the pend handler has actually switched away from an ending current
// thread, so the descriptor can be handed back out and reinitialized while
// its own register frame is still the one executing. Callers here must
// call Release only after the scheduler has confirmed the switch away from
// d is complete — internal/scheduler enforces that ordering.
func (p *Pool) Release(d *Descriptor) {
	assert.Require(!d.isMain && !d.isIdle, "main/idle descriptors are never released")

	d.SetStatus(StatusEnded)
	d.Entry = nil
	d.HW = frame.HWFrame{}
	d.SW = frame.SWFrame{}

	p.lock.LockIRQ()
	slist.TailPut(&p.free, &d.poolNode)
	p.lock.UnlockIRQ()
}

// AddWaiter parks waiter on target's wait queue, the Go analogue of
// sched_thread_join()'s tail_put onto the target's wait_queue.
func AddWaiter(target, waiter *Descriptor) {
	slist.TailPut(&target.waitQueue, &waiter.waitNode)
}

// DrainWaiters detaches every descriptor parked on d's wait queue and
// returns them in FIFO order, the Go analogue of
// sched_threads_waiting_resume(). Callers are responsible for clearing
// StatusWaiting and re-enqueuing each returned descriptor onto the ready
// pool.
func DrainWaiters(d *Descriptor) []*Descriptor {
	var waiters []*Descriptor
	for {
		node := slist.HeadGet(&d.waitQueue)
		if node == nil {
			break
		}
		waiters = append(waiters, DescriptorFromWaitNode(node))
	}
	return waiters
}

// Resume signals a parked Checkpoint call to proceed, the cooperative
// substitute for restoring this descriptor's register frame onto the CPU.
func (d *Descriptor) Resume() {
	close(d.resume)
	d.resume = make(chan struct{})
}

// WaitForResume blocks until the scheduler calls Resume for this
// descriptor.
func (d *Descriptor) WaitForResume() {
	<-d.resume
}

// MarkBodyReturned closes the bodyReturned channel, recording that Entry
// has returned control — the point at which real hardware would have
// jumped to m_thread_cleanup via the synthesized lr sentinel.
func (d *Descriptor) MarkBodyReturned() {
	close(d.bodyReturned)
}

// BodyReturned reports whether Entry has already returned.
func (d *Descriptor) BodyReturned() <-chan struct{} {
	return d.bodyReturned
}
