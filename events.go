package quickex

import "context"

// Event is an immutable notification produced by a successful state
// transition.
type Event interface {
	// Kind is a short, stable name of the event, ie. "deposit".
	Kind() string
}

// EventSink receives events once the state change that produced them is
// committed. Delivery is fire-and-forget from the handler point of view: a
// failing sink never reverts committed state.
type EventSink interface {
	Publish(ctx context.Context, events []Event) error
}
