package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
)

func init() {
	quickex.RegisterMsg(func() quickex.Msg { return &SendMsg{} })
}

const maxMemoSize int = 128

// SendMsg moves tokens from the source to the destination address. The
// source must sign the transaction.
type SendMsg struct {
	Metadata    *quickex.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Source      quickex.Address   `protobuf:"bytes,2,opt,name=source,proto3,casttype=github.com/iov-one/quickex.Address" json:"source,omitempty"`
	Destination quickex.Address   `protobuf:"bytes,3,opt,name=destination,proto3,casttype=github.com/iov-one/quickex.Address" json:"destination,omitempty"`
	Ticker      string            `protobuf:"bytes,4,opt,name=ticker,proto3" json:"ticker,omitempty"`
	Amount      *coin.Amount      `protobuf:"bytes,5,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string            `protobuf:"bytes,6,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage()    {}

// Ensure we implement the Msg interface
var _ quickex.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Coin returns the transferred value.
func (m *SendMsg) Coin() coin.Coin {
	c := coin.Coin{Ticker: m.Ticker}
	if m.Amount != nil {
		c.Amount = *m.Amount
	}
	return c
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Amount == nil || !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if !coin.IsCC(m.Ticker) {
		return errors.Wrapf(errors.ErrInput, "invalid ticker %q", m.Ticker)
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrState, "memo too long")
	}
	return nil
}
