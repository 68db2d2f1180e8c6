package thread

import (
	"testing"
	"time"

	"github.com/pryga/mctask/internal/constants"
	"github.com/pryga/mctask/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolReservesMainAndIdle(t *testing.T) {
	p := NewPool(nil)

	assert.True(t, p.Main().IsMain())
	assert.True(t, p.Idle().IsIdle())
	assert.True(t, p.Main().Status().Has(StatusActive))
	assert.True(t, p.Idle().Status().Has(StatusReady))
}

func TestAcquireSetsStartingStatus(t *testing.T) {
	p := NewPool(nil)

	d, err := p.Acquire(func() {}, constants.DefaultStackSize, 0xDEAD)
	require.NoError(t, err)
	require.NotNil(t, d)

	assert.True(t, d.Status().Has(StatusStarting))
	assert.Equal(t, uint32(0xDEAD), d.HW.LR)
}

func TestAcquireExhaustsFreePool(t *testing.T) {
	p := NewPool(nil)

	for i := 0; i < constants.MaxThreads; i++ {
		_, err := p.Acquire(func() {}, constants.DefaultStackSize, 0)
		require.NoError(t, err)
	}

	_, err := p.Acquire(func() {}, constants.DefaultStackSize, 0)
	assert.ErrorIs(t, err, ErrNoMem)
}

func TestReleaseReturnsDescriptorToFreePool(t *testing.T) {
	p := NewPool(nil)

	d, err := p.Acquire(func() {}, constants.DefaultStackSize, 0)
	require.NoError(t, err)

	p.Release(d)

	// The free pool is FIFO: the released descriptor is queued behind the
	// MaxThreads-1 slots that were never taken.
	for i := 0; i < constants.MaxThreads-1; i++ {
		_, err := p.Acquire(func() {}, constants.DefaultStackSize, 0)
		require.NoError(t, err)
	}

	again, err := p.Acquire(func() {}, constants.DefaultStackSize, 0)
	require.NoError(t, err)
	assert.Same(t, d, again)
	assert.Equal(t, StatusStarting, again.Status())
}

func TestAcquireCountsTowardCounters(t *testing.T) {
	var counters diag.Counters
	p := NewPool(&counters)

	_, err := p.Acquire(func() {}, constants.DefaultStackSize, 0)
	require.NoError(t, err)

	assert.EqualValues(t, 1, counters.Snapshot().ThreadsCreated)
}

func TestStatusBitsAreIndependent(t *testing.T) {
	var d Descriptor
	d.SetStatus(StatusNone)

	d.OrStatus(StatusReady)
	assert.True(t, d.Status().Has(StatusReady))
	assert.False(t, d.Status().Has(StatusStarting))

	d.OrStatus(StatusStarting)
	assert.True(t, d.Status().Has(StatusReady))
	assert.True(t, d.Status().Has(StatusStarting))

	d.ClearStatus(StatusStarting)
	assert.True(t, d.Status().Has(StatusReady))
	assert.False(t, d.Status().Has(StatusStarting))
}

func TestAddWaiterAndDrainWaiters(t *testing.T) {
	p := NewPool(nil)

	target, err := p.Acquire(func() {}, constants.DefaultStackSize, 0)
	require.NoError(t, err)

	w1, err := p.Acquire(func() {}, constants.DefaultStackSize, 0)
	require.NoError(t, err)
	w2, err := p.Acquire(func() {}, constants.DefaultStackSize, 0)
	require.NoError(t, err)

	AddWaiter(target, w1)
	AddWaiter(target, w2)

	waiters := DrainWaiters(target)
	require.Len(t, waiters, 2)
	assert.Same(t, w1, waiters[0])
	assert.Same(t, w2, waiters[1])

	assert.Empty(t, DrainWaiters(target))
}

func TestResumeUnblocksWaitForResume(t *testing.T) {
	p := NewPool(nil)
	d, err := p.Acquire(func() {}, constants.DefaultStackSize, 0)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		d.WaitForResume()
		close(done)
	}()

	d.Resume()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForResume did not unblock after Resume")
	}
}

func TestMarkBodyReturnedClosesChannel(t *testing.T) {
	p := NewPool(nil)
	d, err := p.Acquire(func() {}, constants.DefaultStackSize, 0)
	require.NoError(t, err)

	d.MarkBodyReturned()

	select {
	case <-d.BodyReturned():
	default:
		t.Fatal("BodyReturned channel not closed")
	}
}
