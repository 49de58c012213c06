package escrow

import (
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
)

// Event kinds.
const (
	KindDeposit             = "Deposit"
	KindWithdrawToggled     = "WithdrawToggled"
	KindPrivacyToggled      = "PrivacyToggled"
	KindWithdrawGateToggled = "WithdrawGateToggled"
)

// DepositEvent is emitted when funds are locked under a commitment.
type DepositEvent struct {
	Commitment Commitment  `json:"commitment"`
	Token      string      `json:"token"`
	Amount     coin.Amount `json:"amount"`
}

func (DepositEvent) Kind() string { return KindDeposit }

// WithdrawToggledEvent is emitted when an entry is withdrawn.
type WithdrawToggledEvent struct {
	To         quickex.Address  `json:"to"`
	Commitment Commitment       `json:"commitment"`
	Timestamp  quickex.UnixTime `json:"timestamp"`
}

func (WithdrawToggledEvent) Kind() string { return KindWithdrawToggled }

// PrivacyToggledEvent is emitted when the deposit gate changes.
type PrivacyToggledEvent struct {
	Owner     quickex.Address  `json:"owner"`
	Enabled   bool             `json:"enabled"`
	Timestamp quickex.UnixTime `json:"timestamp"`
}

func (PrivacyToggledEvent) Kind() string { return KindPrivacyToggled }

// WithdrawGateToggledEvent is emitted when the withdraw gate changes.
type WithdrawGateToggledEvent struct {
	Owner     quickex.Address  `json:"owner"`
	Enabled   bool             `json:"enabled"`
	Timestamp quickex.UnixTime `json:"timestamp"`
}

func (WithdrawGateToggledEvent) Kind() string { return KindWithdrawGateToggled }

var (
	_ quickex.Event = DepositEvent{}
	_ quickex.Event = WithdrawToggledEvent{}
	_ quickex.Event = PrivacyToggledEvent{}
	_ quickex.Event = WithdrawGateToggledEvent{}
)
