package arena

import (
	"math"
)

// nodeIndex is the position of a node slot in the node pool.
type nodeIndex uint32

// headIndex is the position of a list head slot in the head pool.
type headIndex uint32

// invalidNode is used when a link doesn't point anywhere, in other words it is an equivalent of a nil address.
const invalidNode nodeIndex = math.MaxUint32

// link represents a slice-based doubly linked-list node that
// consists of a next and previous nodeIndex.
type link struct {
	next nodeIndex
	prev nodeIndex
}

// node is one slot of the node pool. While allocated it holds an element of exactly one list.
type node struct {
	item Element
	link link
}

// reset overwrites the node to its unallocated form.
func (n *node) reset() {
	n.item = nil
	n.link.next = invalidNode
	n.link.prev = invalidNode
}

// state represents a doubly linked-list by its first, last and current node indices.
type state struct {
	first nodeIndex
	last  nodeIndex
	// curr is the cursor of the list, invalidNode when the list has no current position.
	curr  nodeIndex
	count int

	// generation is bumped every time the head slot is returned to the pool, so
	// handles issued for an earlier occupant of the slot are rejected.
	generation uint32
}

// clear turns the head into an empty list.
func (s *state) clear() {
	s.first = invalidNode
	s.last = invalidNode
	s.curr = invalidNode
	s.count = 0
}
