// Package integration runs the end-to-end scenarios from spec.md §8
// against the public mctask API: fairness, join, no switch when idle,
// self-join, creation-at-capacity, and nested IRQ-safe locking.
package integration

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/pryga/mctask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: round-robin with no joins between the workers. Two busy threads
// incrementing independent counters, checkpointing every iteration, both
// run to completion: once main has joined them, each counter equals
// iterations.
func TestS1RoundRobinFairness(t *testing.T) {
	k := mctask.NewTestKernel(t)

	var c1, c2 atomic.Uint64
	const iterations = 500

	h1, err := k.Create(mctask.BusyThread(iterations, &c1), 0)
	require.NoError(t, err)
	h2, err := k.Create(mctask.BusyThread(iterations, &c2), 0)
	require.NoError(t, err)

	main := k.MainContext()
	require.NoError(t, main.Join(h1))
	require.NoError(t, main.Join(h2))

	assert.Equal(t, uint64(iterations), c1.Load())
	assert.Equal(t, uint64(iterations), c2.Load())
}

// S2: join blocks until the target actually ends, and the descriptor comes
// back out of the free pool afterward.
func TestS2JoinBlocksThenReturns(t *testing.T) {
	k := mctask.NewTestKernel(t)

	var c1 atomic.Uint64
	target, err := k.Create(func(ctx *mctask.ThreadContext) {
		for i := 0; i < 10; i++ {
			c1.Add(1)
			ctx.Checkpoint()
		}
	}, 0)
	require.NoError(t, err)

	main := k.MainContext()
	require.NoError(t, main.Join(target))

	assert.Equal(t, uint64(10), c1.Load())
	assert.True(t, target.Ended())

	// The descriptor must be reusable: exhaust the pool and confirm one
	// more slot than would otherwise fit is available.
	var handles []*mctask.Thread
	for i := 0; i < mctask.MaxThreads; i++ {
		h, err := k.Create(func(ctx *mctask.ThreadContext) {}, 0)
		require.NoError(t, err)
		handles = append(handles, h)
	}
	for _, h := range handles {
		require.NoError(t, main.Join(h))
	}
}

// S3: a tick with an empty ready pool and a non-ending current leaves the
// current thread running — main keeps executing when nothing else is
// ready.
func TestS3NoSwitchWhenNoReadyThreads(t *testing.T) {
	k := mctask.NewTestKernel(t)

	before := k.Current().ID()
	time.Sleep(10 * time.Millisecond)
	after := k.Current().ID()

	assert.Equal(t, before, after)
}

// S4: self-join is rejected with DEADLOCK and the caller keeps running.
func TestS4SelfJoinRejected(t *testing.T) {
	k := mctask.NewTestKernel(t)

	main := k.MainContext()
	err := main.Join(main.Descriptor())

	require.Error(t, err)
	assert.True(t, mctask.IsCode(err, mctask.ErrCodeDeadlock))
}

// S5: creation at capacity fails with NO_MEM; after one thread ends and is
// joined, creation succeeds again.
func TestS5CreationAtCapacity(t *testing.T) {
	k := mctask.NewTestKernel(t)

	release := make(chan struct{})
	var handles []*mctask.Thread
	for i := 0; i < mctask.MaxThreads; i++ {
		h, err := k.Create(func(ctx *mctask.ThreadContext) {
			<-release
		}, 0)
		require.NoError(t, err)
		handles = append(handles, h)
	}

	_, err := k.Create(func(ctx *mctask.ThreadContext) {}, 0)
	require.Error(t, err)
	assert.True(t, mctask.IsCode(err, mctask.ErrCodeNoMem))

	close(release)
	main := k.MainContext()
	for _, h := range handles {
		require.NoError(t, main.Join(h))
	}

	_, err = k.Create(func(ctx *mctask.ThreadContext) {}, 0)
	assert.NoError(t, err)
}

// S6: a nested LockStore/UnlockRestore sequence on two IRQ-safe locks
// leaves both locks unlocked.
func TestS6NestedIRQSafeLockPreservesMask(t *testing.T) {
	var l1, l2 mctask.SpinLockIRQ

	m1 := l1.LockStore()
	m2 := l2.LockStore()
	l2.UnlockRestore(m2)
	l1.UnlockRestore(m1)

	// Ordinary lock/unlock must still succeed after the nested sequence,
	// proving neither lock word was left held.
	l1.Lock()
	l1.Unlock()
	l2.Lock()
	l2.Unlock()

	mask := mctask.IRQDisableStore()
	mctask.IRQRestore(mask)
}
