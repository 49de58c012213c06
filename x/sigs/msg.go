package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
)

func init() {
	quickex.RegisterMsg(func() quickex.Msg { return &BumpSequenceMsg{} })
}

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the sequence of the main signer, which
// invalidates any signature made for the skipped sequence values.
type BumpSequenceMsg struct {
	Metadata  *quickex.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Increment uint32            `protobuf:"varint,2,opt,name=increment,proto3" json:"increment,omitempty"`
}

func (msg *BumpSequenceMsg) Reset()         { *msg = BumpSequenceMsg{} }
func (msg *BumpSequenceMsg) String() string { return proto.CompactTextString(msg) }
func (*BumpSequenceMsg) ProtoMessage()      {}

func (msg *BumpSequenceMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}
