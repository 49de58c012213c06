package quickex

import (
	"context"
	"encoding/json"

	"github.com/iov-one/quickex/errors"
)

// Handler is a core engine that can process a few specific messages
// This could represent "deposit into escrow", or "toggle a gate"
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx context.Context, info BlockInfo, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx context.Context, info BlockInfo, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication, or logging, to many Handlers
type Decorator interface {
	Check(ctx context.Context, info BlockInfo, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx context.Context, info BlockInfo, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// CheckResult captures any non-error result of a Check call.
type CheckResult struct {
	// Data is a machine-parseable return value
	Data []byte
	// Log is human-readable informational string
	Log string
}

// DeliverResult captures any non-error result of a Deliver call.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the key of the entity
	// that was touched
	Data []byte
	// Log is human-readable informational string
	Log string
	// Events is the list of notifications produced by the state change.
	// They must only be published once the state change is committed.
	Events []Event
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %q: %s", key, err)
	}
	return nil
}

// Stream expects an array of json elements under the given key and returns a
// function that decodes one element per call into the given destination.
// Once all elements are consumed ErrEmpty is returned, and any further call
// returns ErrState. A missing or empty list is reported with ErrEmpty right
// away.
func (o Options) Stream(key string) (func(dest interface{}) error, error) {
	raw := o[key]
	if len(raw) == 0 {
		return nil, errors.Wrapf(errors.ErrEmpty, "no %q list", key)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "%q is not a list: %s", key, err)
	}
	if len(items) == 0 {
		return nil, errors.Wrapf(errors.ErrEmpty, "empty %q list", key)
	}

	var (
		pos  int
		done bool
	)
	return func(dest interface{}) error {
		if done {
			return errors.Wrap(errors.ErrState, "stream already consumed")
		}
		if pos >= len(items) {
			done = true
			return errors.ErrEmpty
		}
		item := items[pos]
		pos++
		if err := json.Unmarshal(item, dest); err != nil {
			return errors.Wrapf(errors.ErrInput, "element %d: %s", pos-1, err)
		}
		return nil
	}, nil
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
