package module

// ReadyDoneAware is implemented by the long running services of a session, e.g., the metrics server.
// They start once and stop once: calling Ready again after shutdown commenced does not restart them.
type ReadyDoneAware interface {
	// Ready starts the service and returns a channel closed once it is up. Idempotent.
	Ready() <-chan struct{}

	// Done stops the service and returns a channel closed once it is down. Idempotent.
	Done() <-chan struct{}
}
