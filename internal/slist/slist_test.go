package slist

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	val  int
	node Node
}

var itemNodeOffset = unsafe.Offsetof(item{}.node)

func TestTailPutHeadGetFIFOOrder(t *testing.T) {
	var list List
	Init(&list)

	a, b, c := &item{val: 1}, &item{val: 2}, &item{val: 3}
	TailPut(&list, &a.node)
	TailPut(&list, &b.node)
	TailPut(&list, &c.node)

	got := HeadGet(&list)
	require.NotNil(t, got)
	assert.Equal(t, &a.node, got)

	got = HeadGet(&list)
	require.NotNil(t, got)
	assert.Equal(t, &b.node, got)

	got = HeadGet(&list)
	require.NotNil(t, got)
	assert.Equal(t, &c.node, got)

	assert.Nil(t, HeadGet(&list))
}

func TestHeadPutLIFOAtFront(t *testing.T) {
	var list List
	Init(&list)

	a, b := &item{val: 1}, &item{val: 2}
	HeadPut(&list, &a.node)
	HeadPut(&list, &b.node)

	assert.Equal(t, &b.node, HeadPeek(&list))
	assert.Equal(t, &a.node, TailPeek(&list))
}

func TestEmptyListPeekAndGetReturnNil(t *testing.T) {
	var list List
	Init(&list)

	assert.Nil(t, HeadPeek(&list))
	assert.Nil(t, TailPeek(&list))
	assert.Nil(t, HeadGet(&list))
}

func TestSingleElementRoundTrip(t *testing.T) {
	var list List
	Init(&list)

	a := &item{val: 1}
	TailPut(&list, &a.node)

	assert.Equal(t, &a.node, HeadPeek(&list))
	assert.Equal(t, &a.node, TailPeek(&list))

	got := HeadGet(&list)
	assert.Equal(t, &a.node, got)
	assert.Nil(t, HeadPeek(&list))
	assert.Nil(t, TailPeek(&list))
}

func TestNextPutInsertsAfterNode(t *testing.T) {
	var list List
	Init(&list)

	a, b, c := &item{val: 1}, &item{val: 2}, &item{val: 3}
	TailPut(&list, &a.node)
	TailPut(&list, &c.node)
	NextPut(&list, &a.node, &b.node)

	assert.Equal(t, &b.node, NextPeek(&a.node))
	assert.Equal(t, &c.node, NextPeek(&b.node))
	assert.Equal(t, &c.node, TailPeek(&list))
}

func TestNextPutAtTailUpdatesTail(t *testing.T) {
	var list List
	Init(&list)

	a, b := &item{val: 1}, &item{val: 2}
	TailPut(&list, &a.node)
	NextPut(&list, &a.node, &b.node)

	assert.Equal(t, &b.node, TailPeek(&list))
}

func TestNextGetDetachesFollowingNode(t *testing.T) {
	var list List
	Init(&list)

	a, b, c := &item{val: 1}, &item{val: 2}, &item{val: 3}
	TailPut(&list, &a.node)
	TailPut(&list, &b.node)
	TailPut(&list, &c.node)

	got := NextGet(&list, &a.node)
	assert.Equal(t, &b.node, got)
	assert.Equal(t, &c.node, NextPeek(&a.node))
}

func TestNextGetAtTailUpdatesTail(t *testing.T) {
	var list List
	Init(&list)

	a, b := &item{val: 1}, &item{val: 2}
	TailPut(&list, &a.node)
	TailPut(&list, &b.node)

	got := NextGet(&list, &a.node)
	assert.Equal(t, &b.node, got)
	assert.Equal(t, &a.node, TailPeek(&list))
	assert.Nil(t, NextPeek(&a.node))
}

func TestRemoveArbitraryNode(t *testing.T) {
	var list List
	Init(&list)

	a, b, c := &item{val: 1}, &item{val: 2}, &item{val: 3}
	TailPut(&list, &a.node)
	TailPut(&list, &b.node)
	TailPut(&list, &c.node)

	Remove(&list, &b.node)

	assert.Equal(t, &a.node, HeadPeek(&list))
	assert.Equal(t, &c.node, NextPeek(&a.node))
	assert.Equal(t, &c.node, TailPeek(&list))
}

func TestRemoveHeadNode(t *testing.T) {
	var list List
	Init(&list)

	a, b := &item{val: 1}, &item{val: 2}
	TailPut(&list, &a.node)
	TailPut(&list, &b.node)

	Remove(&list, &a.node)

	assert.Equal(t, &b.node, HeadPeek(&list))
}

func TestRemoveMissingNodeIsNoop(t *testing.T) {
	var list List
	Init(&list)

	a, b := &item{val: 1}, &item{val: 2}
	TailPut(&list, &a.node)

	assert.NotPanics(t, func() { Remove(&list, &b.node) })
	assert.Equal(t, &a.node, HeadPeek(&list))
}

func TestContainerOfRecoversOwner(t *testing.T) {
	a := &item{val: 42}
	got := ContainerOf[item](&a.node, itemNodeOffset)
	require.NotNil(t, got)
	assert.Equal(t, 42, got.val)
	assert.Same(t, a, got)
}

func TestContainerOfNilNode(t *testing.T) {
	assert.Nil(t, ContainerOf[item](nil, itemNodeOffset))
}
