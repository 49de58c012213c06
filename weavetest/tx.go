package weavetest

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex"
)

// Tx represents a transaction carrying a single message that is to be
// processed.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg quickex.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ quickex.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (quickex.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg is a message mock. It is routed by RoutePath and its Validate
// method returns Err.
type Msg struct {
	// RoutePath returned by the path method, consumed by the router.
	RoutePath string `protobuf:"bytes,1,opt,name=route_path,proto3" json:"route_path,omitempty"`
	// Serialized is an opaque payload.
	Serialized []byte `protobuf:"bytes,2,opt,name=serialized,proto3" json:"serialized,omitempty"`
	// Err if set is returned by the Validate method.
	Err error `json:"-"`
}

var _ quickex.Msg = (*Msg)(nil)

func (m *Msg) Reset()         { *m = Msg{} }
func (m *Msg) String() string { return proto.CompactTextString(m) }
func (*Msg) ProtoMessage()    {}

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
