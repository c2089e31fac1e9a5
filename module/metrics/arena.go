package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stalkchat/stalk/module"
)

var _ module.ArenaMetrics = (*ArenaCollector)(nil)

type ArenaCollector struct {
	gaugeNodesInUse prometheus.Gauge
	gaugeListsInUse prometheus.Gauge

	countNodeAcquired prometheus.Counter
	countNodeReleased prometheus.Counter
	countListCreated  prometheus.Counter
	countListReleased prometheus.Counter

	countNodePoolExhausted prometheus.Counter
	countHeadPoolExhausted prometheus.Counter
}

// RelayArenaMetricsFactory returns the collector of the arena shared by the relay queues.
func RelayArenaMetricsFactory(registrar prometheus.Registerer) *ArenaCollector {
	return NewArenaCollector(namespaceStalk, PoolRelay, registrar)
}

func NewArenaCollector(nameSpace string, poolName string, registrar prometheus.Registerer) *ArenaCollector {

	gaugeNodesInUse := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: nameSpace,
		Subsystem: subsystemArena,
		Name:      poolName + "_" + "nodes_in_use",
		Help:      "number of nodes of the node pool currently holding an element",
	})

	gaugeListsInUse := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: nameSpace,
		Subsystem: subsystemArena,
		Name:      poolName + "_" + "lists_in_use",
		Help:      "number of list heads of the head pool currently alive",
	})

	countNodeAcquired := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemArena,
		Name:      poolName + "_" + "node_acquired_total",
		Help:      "total number of nodes taken from the node pool",
	})

	countNodeReleased := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemArena,
		Name:      poolName + "_" + "node_released_total",
		Help:      "total number of nodes returned to the node pool",
	})

	countListCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemArena,
		Name:      poolName + "_" + "list_created_total",
		Help:      "total number of lists created",
	})

	countListReleased := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemArena,
		Name:      poolName + "_" + "list_released_total",
		Help:      "total number of list heads returned to the head pool by destruction or concatenation",
	})

	countNodePoolExhausted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemArena,
		Name:      poolName + "_" + "node_pool_exhausted_total",
		Help:      "total number of insertions rejected due to an exhausted node pool",
	})

	countHeadPoolExhausted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemArena,
		Name:      poolName + "_" + "head_pool_exhausted_total",
		Help:      "total number of list creations rejected due to an exhausted head pool",
	})

	registrar.MustRegister(
		// occupancy
		gaugeNodesInUse,
		gaugeListsInUse,

		// nodes
		countNodeAcquired,
		countNodeReleased,

		// lists
		countListCreated,
		countListReleased,

		// exhaustion
		countNodePoolExhausted,
		countHeadPoolExhausted)

	return &ArenaCollector{
		gaugeNodesInUse: gaugeNodesInUse,
		gaugeListsInUse: gaugeListsInUse,

		countNodeAcquired: countNodeAcquired,
		countNodeReleased: countNodeReleased,
		countListCreated:  countListCreated,
		countListReleased: countListReleased,

		countNodePoolExhausted: countNodePoolExhausted,
		countHeadPoolExhausted: countHeadPoolExhausted,
	}
}

// OnNodeAcquired is called whenever a node is taken from the node pool to hold a new element.
func (a *ArenaCollector) OnNodeAcquired(inUse uint32) {
	a.countNodeAcquired.Inc()
	a.gaugeNodesInUse.Set(float64(inUse))
}

// OnNodeReleased is called whenever a node is returned to the node pool.
func (a *ArenaCollector) OnNodeReleased(inUse uint32) {
	a.countNodeReleased.Inc()
	a.gaugeNodesInUse.Set(float64(inUse))
}

// OnNodePoolExhausted is called whenever an insertion is rejected because every node is in use.
func (a *ArenaCollector) OnNodePoolExhausted() {
	a.countNodePoolExhausted.Inc()
}

// OnListCreated is called whenever a list head is taken from the head pool.
func (a *ArenaCollector) OnListCreated(inUse uint32) {
	a.countListCreated.Inc()
	a.gaugeListsInUse.Set(float64(inUse))
}

// OnListReleased is called whenever a list head is returned to the head pool.
func (a *ArenaCollector) OnListReleased(inUse uint32) {
	a.countListReleased.Inc()
	a.gaugeListsInUse.Set(float64(inUse))
}

// OnHeadPoolExhausted is called whenever a list creation is rejected because every head is in use.
func (a *ArenaCollector) OnHeadPoolExhausted() {
	a.countHeadPoolExhausted.Inc()
}
