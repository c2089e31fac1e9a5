package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stalkchat/stalk/module"
)

var _ module.QueueMetrics = (*QueueCollector)(nil)

type QueueCollector struct {
	size    *prometheus.GaugeVec
	dropped *prometheus.CounterVec
}

func NewQueueCollector(registerer prometheus.Registerer) *QueueCollector {
	r := NewRegisterer(registerer)

	return &QueueCollector{
		size: r.RegisterNewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespaceStalk,
			Subsystem: subsystemQueue,
			Name:      "size",
			Help:      "number of messages waiting in the queue",
		}, []string{LabelQueue}),
		dropped: r.RegisterNewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceStalk,
			Subsystem: subsystemQueue,
			Name:      "dropped_total",
			Help:      "total number of messages dropped on push because the queue was full or closed",
		}, []string{LabelQueue}),
	}
}

func (q *QueueCollector) QueueSize(queue string, size uint) {
	q.size.WithLabelValues(queue).Set(float64(size))
}

func (q *QueueCollector) OnMessageDropped(queue string) {
	q.dropped.WithLabelValues(queue).Inc()
}
