package arena

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stalkchat/stalk/module"
)

const (
	// DefaultNodeCapacity is the default number of nodes shared by all lists of a pool.
	DefaultNodeCapacity = 100
	// DefaultListCapacity is the default number of lists that can be alive at the same time in a pool.
	DefaultListCapacity = 10
)

// Element is an opaque, caller-owned reference stored in a list. The pool never dereferences, copies
// or inspects it.
type Element = any

// ListID is a handle to a list of a Pool. It carries the generation of the head slot it was issued
// for, so a handle outliving its list (destroyed, or consumed by Concat) is detected instead of
// silently addressing a later occupant of the same slot.
// The zero value is never a valid handle.
type ListID struct {
	index      headIndex
	generation uint32
}

func (id ListID) String() string {
	return fmt.Sprintf("%d@%d", id.index, id.generation)
}

// Pool is a fixed-capacity arena of list nodes and list heads. All lists created by a pool share its
// node slots; a node freed by one list is recycled by any other.
//
// Pool is NOT concurrency-safe. Callers sharing a pool across goroutines must serialize every call,
// see package queue.
type Pool struct {
	log       zerolog.Logger
	collector module.ArenaMetrics

	nodes     []node
	freeNodes *slotStack[nodeIndex]

	heads     []state
	freeHeads *slotStack[headIndex]
}

// NewPool constructs a pool with nodeCapacity nodes shared by at most listCapacity simultaneously live
// lists. Both capacities are fixed for the lifetime of the pool.
func NewPool(nodeCapacity uint32, listCapacity uint32, logger zerolog.Logger, collector module.ArenaMetrics) *Pool {
	p := &Pool{
		log: logger.With().
			Str("component", "arena_pool").
			Uint32("node_capacity", nodeCapacity).
			Uint32("list_capacity", listCapacity).
			Logger(),
		collector: collector,
		nodes:     make([]node, nodeCapacity),
		freeNodes: newSlotStack[nodeIndex](nodeCapacity),
		heads:     make([]state, listCapacity),
		freeHeads: newSlotStack[headIndex](listCapacity),
	}

	for i := range p.nodes {
		p.nodes[i].reset()
	}
	for i := range p.heads {
		p.heads[i].clear()
		// generation 0 is reserved for the zero ListID
		p.heads[i].generation = 1
	}

	return p
}

// Create allocates an empty list from the head pool.
// Expected errors during normal operations:
//   - ErrPoolExhausted if listCapacity lists are alive.
func (p *Pool) Create() (ListID, error) {
	i, err := p.freeHeads.acquire()
	if err != nil {
		p.collector.OnHeadPoolExhausted()
		p.log.Debug().Msg("head pool exhausted, list not created")
		return ListID{}, fmt.Errorf("could not create list: %w", err)
	}

	h := &p.heads[i]
	h.clear()
	p.collector.OnListCreated(p.freeHeads.allocated())

	return ListID{index: i, generation: h.generation}, nil
}

// Count returns the number of elements of the list.
func (p *Pool) Count(id ListID) int {
	return p.head(id).count
}

// All returns the elements of the list from first to last without moving its cursor.
func (p *Pool) All(id ListID) []Element {
	h := p.head(id)
	all := make([]Element, 0, h.count)
	for i := h.first; i != invalidNode; i = p.nodes[i].link.next {
		all = append(all, p.nodes[i].item)
	}
	return all
}

// Stats is a snapshot of the occupancy of both pools.
type Stats struct {
	NodeCapacity uint32
	NodesInUse   uint32
	ListCapacity uint32
	ListsInUse   uint32
}

// Stats returns the occupancy of the node and head pools.
func (p *Pool) Stats() Stats {
	return Stats{
		NodeCapacity: p.freeNodes.capacity(),
		NodesInUse:   p.freeNodes.allocated(),
		ListCapacity: p.freeHeads.capacity(),
		ListsInUse:   p.freeHeads.allocated(),
	}
}

// head resolves a handle to its list head. An invalid handle is a violation of the calling contract
// and panics with an InvalidHandleError.
func (p *Pool) head(id ListID) *state {
	if uint32(id.index) >= uint32(len(p.heads)) {
		p.violation(NewInvalidHandleErr(id, "index out of range"))
	}
	if !p.freeHeads.inUse(id.index) {
		p.violation(NewInvalidHandleErr(id, "list is not alive"))
	}
	h := &p.heads[id.index]
	if h.generation != id.generation {
		p.violation(NewInvalidHandleErr(id, fmt.Sprintf("stale generation, slot is at generation %d", h.generation)))
	}
	return h
}

// violation logs err at error level and panics with it, on a broken calling contract or a corrupted pool.
func (p *Pool) violation(err error) {
	p.log.Error().Err(err).Msg("arena contract violation")
	panic(err)
}

// acquireNode takes a node from the node pool and stores the item in it, the node is not linked yet.
func (p *Pool) acquireNode(item Element) (nodeIndex, error) {
	i, err := p.freeNodes.acquire()
	if err != nil {
		p.collector.OnNodePoolExhausted()
		p.log.Debug().Msg("node pool exhausted, element rejected")
		return invalidNode, ErrFull
	}
	p.nodes[i].item = item
	p.collector.OnNodeAcquired(p.freeNodes.allocated())
	return i, nil
}

// releaseNode resets the node and returns it to the node pool.
func (p *Pool) releaseNode(i nodeIndex) {
	p.nodes[i].reset()
	if err := p.freeNodes.release(i); err != nil {
		p.violation(fmt.Errorf("could not release node: %w", err))
	}
	p.collector.OnNodeReleased(p.freeNodes.allocated())
}

// releaseHead returns the head slot of the list to the head pool and invalidates every handle to it.
func (p *Pool) releaseHead(id ListID) {
	h := &p.heads[id.index]
	h.clear()
	h.generation++
	if h.generation == 0 {
		h.generation = 1
	}
	if err := p.freeHeads.release(id.index); err != nil {
		p.violation(fmt.Errorf("could not release list head: %w", err))
	}
	p.collector.OnListReleased(p.freeHeads.allocated())
}
