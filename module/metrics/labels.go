package metrics

const (
	LabelQueue = "queue"
)

const (
	// queues of the relay engine
	QueueOutbound = "outbound"
	QueueInbound  = "inbound"
)

const (
	PoolRelay = "relay"
)
