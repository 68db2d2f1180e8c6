// Package slist implements an intrusive singly-linked list: the node lives
// inside the owning struct, so the list itself never allocates. Head/tail
// put and get are O(1); removing an arbitrary node is O(n).
//
// Ported from the firmware's tools/slist.c. The list never touches payload
// data — recovering the owning struct from a *Node is the caller's job via
// ContainerOf, the Go analogue of the original's CONTAINER_OF macro.
package slist

import "unsafe"

// Node is embedded in an owning struct to make that struct a list member.
// A Node may be on at most one List at a time; inserting it twice is
// undefined behavior, matching the original's contract.
type Node struct {
	next *Node
}

// List is a FIFO singly-linked list of embedded Nodes.
type List struct {
	head *Node
	tail *Node
}

// Init resets list to empty. Both endpoints are nil.
func Init(list *List) {
	list.head = nil
	list.tail = nil
}

// HeadPeek returns the head node without removing it, or nil if empty.
func HeadPeek(list *List) *Node {
	return list.head
}

// TailPeek returns the tail node without removing it, or nil if empty.
func TailPeek(list *List) *Node {
	return list.tail
}

// HeadGet detaches and returns the head node, or nil if the list is empty.
// If the list had exactly one node, both endpoints become nil.
func HeadGet(list *List) *Node {
	head := list.head
	if head == nil {
		return nil
	}

	if head == list.tail {
		list.head = nil
		list.tail = nil
	} else {
		list.head = head.next
	}
	head.next = nil

	return head
}

// HeadRemove discards the head node. No-op on an empty list.
func HeadRemove(list *List) {
	if list.head == nil {
		return
	}

	if list.head == list.tail {
		list.head = nil
		list.tail = nil
	} else {
		list.head = list.head.next
	}
}

// HeadPut inserts node at the front of the list.
func HeadPut(list *List, node *Node) {
	if list.head == nil {
		list.head = node
		list.tail = node
		node.next = nil
	} else {
		node.next = list.head
		list.head = node
	}
}

// TailPut inserts node at the end of the list.
func TailPut(list *List, node *Node) {
	if list.head == nil {
		list.head = node
		list.tail = node
		node.next = nil
		return
	}

	list.tail.next = node
	node.next = nil
	list.tail = node
}

// NextPeek returns node.next without detaching it.
func NextPeek(node *Node) *Node {
	return node.next
}

// NextGet detaches and returns the node following node, or nil if node is
// the tail.
func NextGet(list *List, node *Node) *Node {
	next := node.next
	if next == nil {
		return nil
	}

	if next == list.tail {
		list.tail = node
		node.next = nil
	} else {
		node.next = next.next
	}
	next.next = nil

	return next
}

// NextRemove discards the node following node. No-op if node is the tail.
func NextRemove(list *List, node *Node) {
	next := node.next
	if next == nil {
		return
	}

	if next == list.tail {
		list.tail = node
		node.next = nil
	} else {
		node.next = next.next
	}
}

// NextPut inserts newNode immediately after node, updating tail if node was
// the tail.
func NextPut(list *List, node, newNode *Node) {
	if list.tail == node {
		TailPut(list, newNode)
		return
	}

	newNode.next = node.next
	node.next = newNode
}

// Remove deletes node from anywhere in list, in O(n). No-op if node is not
// present. Used by the scheduler to pull an ended, non-current thread out
// of the ready pool.
func Remove(list *List, node *Node) {
	if list.head == node {
		HeadRemove(list)
		return
	}

	cur := list.head
	for cur != nil {
		if cur.next == node {
			NextRemove(list, cur)
			return
		}
		cur = cur.next
	}
}

// ContainerOf recovers a pointer to the T embedding node at byte offset
// fieldOffset, the Go analogue of the firmware's CONTAINER_OF macro. Callers
// pass unsafe.Offsetof(T{}.Field) for fieldOffset.
func ContainerOf[T any](node *Node, fieldOffset uintptr) *T {
	if node == nil {
		return nil
	}
	base := uintptr(unsafe.Pointer(node)) - fieldOffset
	return (*T)(unsafe.Pointer(base))
}
