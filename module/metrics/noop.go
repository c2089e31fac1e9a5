package metrics

import (
	"github.com/stalkchat/stalk/module"
)

type NoopCollector struct{}

var _ module.ArenaMetrics = (*NoopCollector)(nil)
var _ module.QueueMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) OnNodeAcquired(uint32)   {}
func (nc *NoopCollector) OnNodeReleased(uint32)   {}
func (nc *NoopCollector) OnNodePoolExhausted()    {}
func (nc *NoopCollector) OnListCreated(uint32)    {}
func (nc *NoopCollector) OnListReleased(uint32)   {}
func (nc *NoopCollector) OnHeadPoolExhausted()    {}
func (nc *NoopCollector) QueueSize(string, uint)  {}
func (nc *NoopCollector) OnMessageDropped(string) {}
