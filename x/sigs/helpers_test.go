package sigs

import (
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/weavetest"
)

// StdTx is a signed transaction carrying an opaque payload.
type StdTx struct {
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ quickex.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Payload: payload}
}

func (tx *StdTx) GetMsg() (quickex.Msg, error) {
	return &weavetest.Msg{RoutePath: "test/payload", Serialized: tx.Payload}, nil
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}
