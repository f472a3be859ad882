package realtime

// Conn is a live client connection as the routing layer sees it. The websocket
// client implements it; tests substitute in-memory fakes.
type Conn interface {
	// ID returns a stable identifier unique to this connection, distinct
	// from the user identity it may later be bound to.
	ID() string

	// Send enqueues one event for delivery. It never blocks: when the
	// connection's outbound buffer is full or the connection is closed the
	// event is dropped and an error returned.
	Send(event string, data interface{}) error

	// Close tears the connection down. Safe to call more than once.
	Close() error
}
