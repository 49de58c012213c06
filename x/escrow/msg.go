package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
)

func init() {
	quickex.RegisterMsg(func() quickex.Msg { return &DepositMsg{} })
	quickex.RegisterMsg(func() quickex.Msg { return &WithdrawMsg{} })
	quickex.RegisterMsg(func() quickex.Msg { return &SetGateMsg{} })
	quickex.RegisterMsg(func() quickex.Msg { return &UpdateConfigurationMsg{} })
}

const (
	pathDepositMsg             = "escrow/deposit"
	pathWithdrawMsg            = "escrow/withdraw"
	pathSetGateMsg             = "escrow/set_gate"
	pathUpdateConfigurationMsg = "escrow/update_configuration"
)

// DepositMsg locks funds under a commitment. Funds are taken from the
// source, or from the main signer if no source is given.
//
// The source becomes the entry owner, so the commitment must be derived
// from the source address and this exact amount. A commitment made for any
// other owner or amount is accepted but can never be withdrawn.
type DepositMsg struct {
	Metadata   *quickex.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Source     quickex.Address   `protobuf:"bytes,2,opt,name=source,proto3,casttype=github.com/iov-one/quickex.Address" json:"source,omitempty"`
	Token      string            `protobuf:"bytes,3,opt,name=token,proto3" json:"token,omitempty"`
	Amount     *coin.Amount      `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Commitment []byte            `protobuf:"bytes,5,opt,name=commitment,proto3" json:"commitment,omitempty"`
}

func (m *DepositMsg) Reset()         { *m = DepositMsg{} }
func (m *DepositMsg) String() string { return proto.CompactTextString(m) }
func (*DepositMsg) ProtoMessage()    {}

func (DepositMsg) Path() string {
	return pathDepositMsg
}

func (m *DepositMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Amount == nil || !m.Amount.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	if !coin.IsCC(m.Token) {
		return errors.Wrapf(errors.ErrInput, "invalid token %q", m.Token)
	}
	if m.Source != nil {
		if err := m.Source.Validate(); err != nil {
			return errors.Wrap(err, "source")
		}
	}
	if _, err := CommitmentFromBytes(m.Commitment); err != nil {
		return err
	}
	return nil
}

// WithdrawMsg reveals the preimage of a commitment and releases the funds to
// the recipient.
type WithdrawMsg struct {
	Metadata  *quickex.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Owner     quickex.Address   `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/quickex.Address" json:"owner,omitempty"`
	Amount    *coin.Amount      `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Salt      []byte            `protobuf:"bytes,4,opt,name=salt,proto3" json:"salt,omitempty"`
	Recipient quickex.Address   `protobuf:"bytes,5,opt,name=recipient,proto3,casttype=github.com/iov-one/quickex.Address" json:"recipient,omitempty"`
}

func (m *WithdrawMsg) Reset()         { *m = WithdrawMsg{} }
func (m *WithdrawMsg) String() string { return proto.CompactTextString(m) }
func (*WithdrawMsg) ProtoMessage()    {}

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

func (m *WithdrawMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if m.Amount == nil || !m.Amount.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	if err := ValidateSalt(m.Salt); err != nil {
		return err
	}
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	return nil
}

// Commitment returns the commitment of the revealed preimage.
func (m *WithdrawMsg) Commitment() Commitment {
	var amount coin.Amount
	if m.Amount != nil {
		amount = *m.Amount
	}
	return Derive(m.Owner, amount, m.Salt)
}

// SetGateMsg opens or closes one of the gates.
type SetGateMsg struct {
	Metadata *quickex.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Gate     Gate              `protobuf:"varint,2,opt,name=gate,proto3" json:"gate,omitempty"`
	Enabled  bool              `protobuf:"varint,3,opt,name=enabled,proto3" json:"enabled,omitempty"`
}

func (m *SetGateMsg) Reset()         { *m = SetGateMsg{} }
func (m *SetGateMsg) String() string { return proto.CompactTextString(m) }
func (*SetGateMsg) ProtoMessage()    {}

func (SetGateMsg) Path() string {
	return pathSetGateMsg
}

func (m *SetGateMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return m.Gate.Validate()
}

// UpdateConfigurationMsg changes the escrow configuration. Only non zero
// fields of the patch are applied. Gates cannot be changed this way, use
// SetGateMsg so that the change is announced.
type UpdateConfigurationMsg struct {
	Metadata *quickex.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Patch    *Configuration    `protobuf:"bytes,2,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *UpdateConfigurationMsg) Reset()         { *m = UpdateConfigurationMsg{} }
func (m *UpdateConfigurationMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateConfigurationMsg) ProtoMessage()    {}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	if m.Patch.PrivacyEnabled || m.Patch.WithdrawEnabled {
		return errors.Wrap(errors.ErrMsg, "gates can only be changed with "+pathSetGateMsg)
	}
	if m.Patch.Owner != nil {
		if err := m.Patch.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	return nil
}

var (
	_ quickex.Msg = (*DepositMsg)(nil)
	_ quickex.Msg = (*WithdrawMsg)(nil)
	_ quickex.Msg = (*SetGateMsg)(nil)
	_ quickex.Msg = (*UpdateConfigurationMsg)(nil)
)
