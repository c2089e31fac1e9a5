package arena

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stalkchat/stalk/module/metrics"
	"github.com/stalkchat/stalk/utils/unittest"
)

func newTestPool(nodeCapacity uint32, listCapacity uint32) *Pool {
	return NewPool(nodeCapacity, listCapacity, unittest.Logger(), metrics.NewNoopCollector())
}

// withList creates a list on the pool and appends the given elements to it. The cursor is left at the
// last element, as after the last Append.
func withList(t require.TestingT, pool *Pool, elements ...Element) ListID {
	id, err := pool.Create()
	require.NoError(t, err)
	for _, e := range elements {
		require.NoError(t, pool.Append(id, e))
	}
	return id
}

// requireElements checks the content of the list, first to last, and that walking it backwards from the
// tail yields the same content reversed.
func requireElements(t require.TestingT, pool *Pool, id ListID, expected ...Element) {
	if len(expected) == 0 {
		expected = []Element{}
	}
	require.Equal(t, expected, pool.All(id))
	require.Equal(t, len(expected), pool.Count(id))

	h := pool.head(id)
	backwards := make([]Element, 0, len(expected))
	for n := h.last; n != invalidNode; n = pool.nodes[n].link.prev {
		backwards = append(backwards, pool.nodes[n].item)
	}
	for i, j := 0, len(backwards)-1; i < j; i, j = i+1, j-1 {
		backwards[i], backwards[j] = backwards[j], backwards[i]
	}
	require.Equal(t, expected, backwards)
}

// requireCurr checks the element at the cursor of the list without moving it, a nil expected element
// means the cursor must have no position.
func requireCurr(t require.TestingT, pool *Pool, id ListID, expected Element) {
	item, ok := pool.Curr(id)
	if expected == nil {
		require.False(t, ok, "cursor expected without position, found at %v", item)
		require.Nil(t, item)
		return
	}
	require.True(t, ok, "cursor expected at %v, found without position", expected)
	require.Equal(t, expected, item)
}

// requireHealthy walks every live list of the pool and checks that its links, size and cursor are
// consistent, that every allocated node belongs to exactly one live list, and that the free stacks only
// hold unallocated slots.
func requireHealthy(t require.TestingT, pool *Pool) {
	owner := make(map[nodeIndex]headIndex)

	for i := range pool.heads {
		hi := headIndex(i)
		h := &pool.heads[i]
		require.NotZero(t, h.generation, "head %d has the reserved generation", i)

		if !pool.freeHeads.inUse(hi) {
			require.Equal(t, invalidNode, h.first, "free head %d is not empty", i)
			require.Equal(t, invalidNode, h.last, "free head %d is not empty", i)
			require.Equal(t, invalidNode, h.curr, "free head %d has a cursor", i)
			require.Zero(t, h.count, "free head %d is not empty", i)
			continue
		}

		count := 0
		prev := invalidNode
		currFound := h.curr == invalidNode
		for n := h.first; n != invalidNode; n = pool.nodes[n].link.next {
			require.True(t, pool.freeNodes.inUse(n), "node %d of list %d is free", n, i)
			other, taken := owner[n]
			require.False(t, taken, "node %d is linked in lists %d and %d", n, other, i)
			owner[n] = hi

			require.Equal(t, prev, pool.nodes[n].link.prev, "broken prev link at node %d", n)
			if n == h.curr {
				currFound = true
			}
			prev = n
			count++
			require.LessOrEqual(t, count, len(pool.nodes), "list %d has a cycle", i)
		}
		require.Equal(t, prev, h.last, "last node of list %d is not reachable from its first", i)
		require.Equal(t, count, h.count, "size of list %d does not match its links", i)
		require.True(t, currFound, "cursor of list %d points outside the list", i)
	}

	require.Equal(t, int(pool.freeNodes.allocated()), len(owner), "allocated nodes do not match linked nodes")

	seenNodes := make(map[nodeIndex]struct{})
	for _, n := range pool.freeNodes.free {
		_, dup := seenNodes[n]
		require.False(t, dup, "node %d is twice on the free stack", n)
		seenNodes[n] = struct{}{}
		require.False(t, pool.freeNodes.inUse(n), "node %d is on the free stack while in use", n)
		require.Nil(t, pool.nodes[n].item, "free node %d holds an element", n)
	}

	seenHeads := make(map[headIndex]struct{})
	for _, hi := range pool.freeHeads.free {
		_, dup := seenHeads[hi]
		require.False(t, dup, "head %d is twice on the free stack", hi)
		seenHeads[hi] = struct{}{}
		require.False(t, pool.freeHeads.inUse(hi), "head %d is on the free stack while alive", hi)
	}
}

func requireInvalidHandlePanic(t *testing.T, f func()) {
	unittest.RequirePanicsWithError(t, IsInvalidHandleError, f)
}
