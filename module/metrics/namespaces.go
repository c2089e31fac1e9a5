package metrics

// Prometheus metric namespaces
const (
	namespaceStalk = "stalk"
)

// Prometheus metric subsystems
const (
	subsystemArena = "arena"
	subsystemQueue = "queue"
)
