package quickex

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex/errors"
)

// Marshal serializes given model or message into its protobuf wire form.
func Marshal(m proto.Message) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot marshal %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal decodes the protobuf wire form into given model or message.
func Unmarshal(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot unmarshal %T: %s", m, err)
	}
	return nil
}

// MarshalMsg returns the path and the serialized form of the message, which
// together are enough for NewMsg and Unmarshal to restore it.
func MarshalMsg(msg Msg) (string, []byte, error) {
	raw, err := Marshal(msg)
	if err != nil {
		return "", nil, err
	}
	return msg.Path(), raw, nil
}

// UnmarshalMsg restores a registered message from its path and wire form.
func UnmarshalMsg(path string, raw []byte) (Msg, error) {
	msg, err := NewMsg(path)
	if err != nil {
		return nil, err
	}
	if err := Unmarshal(raw, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
