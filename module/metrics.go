package module

// ArenaMetrics tracks the occupancy of the node and list-head pools of an arena.
type ArenaMetrics interface {
	// OnNodeAcquired is called whenever a node is taken from the node pool to hold a new element.
	// inUse is the number of allocated nodes after the acquisition.
	OnNodeAcquired(inUse uint32)

	// OnNodeReleased is called whenever a node is returned to the node pool.
	// inUse is the number of allocated nodes after the release.
	OnNodeReleased(inUse uint32)

	// OnNodePoolExhausted is called whenever an insertion is rejected because every node is in use.
	// This is an expected outcome when the pool is sized below the peak number of elements.
	OnNodePoolExhausted()

	// OnListCreated is called whenever a list head is taken from the head pool.
	// inUse is the number of live lists after the creation.
	OnListCreated(inUse uint32)

	// OnListReleased is called whenever a list head is returned to the head pool, i.e., on destruction
	// of a list or when it is consumed by a concatenation.
	OnListReleased(inUse uint32)

	// OnHeadPoolExhausted is called whenever a list creation is rejected because every head is in use.
	OnHeadPoolExhausted()
}

// QueueMetrics tracks a bounded message queue backed by an arena list.
type QueueMetrics interface {
	// QueueSize reports the number of messages held by the named queue.
	QueueSize(queue string, size uint)

	// OnMessageDropped is called whenever a message pushed to the named queue is dropped, either because
	// the queue reached its capacity, the shared node pool is exhausted, or the queue is closed.
	OnMessageDropped(queue string)
}
