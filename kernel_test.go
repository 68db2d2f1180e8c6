package mctask

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndJoin(t *testing.T) {
	k := NewTestKernel(t)

	var ran atomic.Bool
	h, err := k.Create(func(ctx *ThreadContext) {
		ran.Store(true)
	}, 0)
	require.NoError(t, err)

	main := k.MainContext()
	require.NoError(t, main.Join(h))
	assert.True(t, ran.Load())
	assert.True(t, h.Ended())
}

func TestThreadIDsAreStableAndUnique(t *testing.T) {
	k := NewTestKernel(t)

	h1, err := k.Create(func(ctx *ThreadContext) {}, 0)
	require.NoError(t, err)
	h2, err := k.Create(func(ctx *ThreadContext) {}, 0)
	require.NoError(t, err)

	assert.NotEqual(t, h1.ID(), h2.ID())
	assert.NotZero(t, h1.ID())
}

func TestDefaultStackSizeUsedWhenZero(t *testing.T) {
	k := NewTestKernel(t)

	h, err := k.Create(func(ctx *ThreadContext) {}, 0)
	require.NoError(t, err)
	assert.EqualValues(t, DefaultStackSize, h.desc.StackSize)

	main := k.MainContext()
	require.NoError(t, main.Join(h))
}

func TestWaitUntilEndedTimesOut(t *testing.T) {
	k := NewTestKernel(t)

	block := make(chan struct{})
	h, err := k.Create(func(ctx *ThreadContext) {
		<-block
	}, 0)
	require.NoError(t, err)
	defer close(block)

	assert.False(t, WaitUntilEnded(h, 10*time.Millisecond))
}
