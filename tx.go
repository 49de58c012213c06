package quickex

import (
	"reflect"
	"regexp"
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex/errors"
)

// Msg is message for the engine to take an action
// (Make a state transition). It is just the request, and
// must be validated by the Handlers. All authentication
// information is in the wrapping Tx.
type Msg interface {
	proto.Message

	// Path returns the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Multiple types may have the same value, and will end up at the
	// same Handler.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one test does not pass and the message must not be
	// processed.
	Validate() error
}

// Tx represent the data sent from the user to the engine.
// It includes the actual message, along with information needed
// to authenticate the sender (cryptographic signatures),
// and anything else needed to pass through middleware.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	// Big portion of this function is done using reflection, because Go
	// does not support generics.

	msgVal := reflect.ValueOf(msg)
	destVal := reflect.ValueOf(destination)
	if destVal.Kind() != reflect.Ptr || destVal.IsNil() {
		return errors.Wrap(errors.ErrHuman, "destination must be a non nil pointer")
	}
	// Destination can be either a pointer to the message struct or a
	// pointer to the message pointer.
	switch dest := destVal.Elem(); {
	case msgVal.Type() == dest.Type():
		dest.Set(msgVal)
	case msgVal.Kind() == reflect.Ptr && msgVal.Elem().Type() == dest.Type():
		dest.Set(msgVal.Elem())
	default:
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

var isMsgPath = regexp.MustCompile(`^[a-zA-Z0-9_\-/]+$`).MatchString

// msgFactories keeps track of all known message types. Each message path can
// be declared only once.
var msgFactories = map[string]func() Msg{}

// RegisterMsg declares a message type so that it can be decoded from the
// wire by its path. Register all messages during program initialization.
// Registering the same path twice panics.
func RegisterMsg(fn func() Msg) {
	path := fn().Path()
	if !isMsgPath(path) {
		panic("invalid message path: " + path)
	}
	if _, ok := msgFactories[path]; ok {
		panic("message path already registered: " + path)
	}
	msgFactories[path] = fn
}

// NewMsg returns an empty instance of the message registered under given
// path.
func NewMsg(path string) (Msg, error) {
	fn, ok := msgFactories[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message path %q", path)
	}
	return fn(), nil
}

// MsgPaths returns all registered message paths in order.
func MsgPaths() []string {
	paths := make([]string, 0, len(msgFactories))
	for p := range msgFactories {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
