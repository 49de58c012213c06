package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/crypto"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/x/sigs"
)

// Tx is the transaction format. It carries a single message, identified by
// its path, and the signatures of that transaction.
type Tx struct {
	Path       string               `protobuf:"bytes,1,opt,name=path,proto3" json:"path,omitempty"`
	Payload    []byte               `protobuf:"bytes,2,opt,name=payload,proto3" json:"payload,omitempty"`
	Signatures []*sigs.StdSignature `protobuf:"bytes,3,rep,name=signatures,proto3" json:"signatures,omitempty"`
}

func (tx *Tx) Reset()         { *tx = Tx{} }
func (tx *Tx) String() string { return proto.CompactTextString(tx) }
func (*Tx) ProtoMessage()     {}

var _ quickex.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg quickex.Msg) (*Tx, error) {
	path, raw, err := quickex.MarshalMsg(msg)
	if err != nil {
		return nil, err
	}
	return &Tx{Path: path, Payload: raw}, nil
}

// GetMsg decodes the message carried by this transaction.
func (tx *Tx) GetMsg() (quickex.Msg, error) {
	if tx.Path == "" {
		return nil, errors.Wrap(errors.ErrMsg, "no message path")
	}
	return quickex.UnmarshalMsg(tx.Path, tx.Payload)
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without the signatures.
// This is what every signer signs.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Path: tx.Path, Payload: tx.Payload}
	return quickex.Marshal(&unsigned)
}

// Sign appends a signature of given signer made for given sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Bytes returns the wire form of the transaction. It is not named Marshal
// because proto.Marshal would then call it back.
func (tx *Tx) Bytes() ([]byte, error) {
	return quickex.Marshal(tx)
}

// DecodeTx restores a transaction from its wire form.
func DecodeTx(raw []byte) (*Tx, error) {
	var tx Tx
	if err := quickex.Unmarshal(raw, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
