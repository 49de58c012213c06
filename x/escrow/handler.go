package escrow

import (
	"context"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/gconf"
	"github.com/iov-one/quickex/x"
	"github.com/iov-one/quickex/x/cash"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r quickex.Registry, auth x.Authenticator, bank cash.CoinMover) {
	ctrl := NewController(NewBucket(), ConfigGates{}, bank, auth)
	r.Handle(pathDepositMsg, DepositHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathWithdrawMsg, WithdrawHandler{ctrl: ctrl})
	r.Handle(pathSetGateMsg, SetGateHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth, nil))
}

// DepositHandler locks the funds of the signer under a commitment.
type DepositHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ quickex.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx) (*quickex.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &quickex.CheckResult{}, nil
}

func (h DepositHandler) Deliver(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx) (*quickex.DeliverResult, error) {
	msg, source, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	commitment, err := CommitmentFromBytes(msg.Commitment)
	if err != nil {
		return nil, err
	}
	_, events, err := h.ctrl.Deposit(ctx, info, db, source, msg.Token, *msg.Amount, commitment)
	if err != nil {
		return nil, err
	}
	return &quickex.DeliverResult{Data: commitment.Bytes(), Events: events}, nil
}

// validate returns the message and the address the funds are taken from.
func (h DepositHandler) validate(ctx context.Context, tx quickex.Tx) (*DepositMsg, quickex.Address, error) {
	var msg DepositMsg
	if err := quickex.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	source := msg.Source
	if source == nil {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "deposit must be signed")
		}
		source = signer.Address()
	}
	if !h.auth.HasAddress(ctx, source) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return &msg, source, nil
}

// WithdrawHandler releases escrowed funds to whoever reveals the
// commitment preimage. No signature is required.
type WithdrawHandler struct {
	ctrl Controller
}

var _ quickex.Handler = WithdrawHandler{}

func (h WithdrawHandler) Check(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx) (*quickex.CheckResult, error) {
	var msg WithdrawMsg
	if err := quickex.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &quickex.CheckResult{}, nil
}

func (h WithdrawHandler) Deliver(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx) (*quickex.DeliverResult, error) {
	var msg WithdrawMsg
	if err := quickex.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	_, events, err := h.ctrl.Withdraw(ctx, info, db, msg.Owner, *msg.Amount, msg.Salt, msg.Recipient)
	if err != nil {
		return nil, err
	}
	return &quickex.DeliverResult{Data: msg.Commitment().Bytes(), Events: events}, nil
}

// SetGateHandler opens and closes the gates.
type SetGateHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ quickex.Handler = SetGateHandler{}

func (h SetGateHandler) Check(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx) (*quickex.CheckResult, error) {
	var msg SetGateMsg
	if err := quickex.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadOrNil(db)
	if err != nil {
		return nil, err
	}
	if conf == nil || !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "administrator signature required")
	}
	return &quickex.CheckResult{}, nil
}

func (h SetGateHandler) Deliver(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx) (*quickex.DeliverResult, error) {
	var msg SetGateMsg
	if err := quickex.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	_, events, err := h.ctrl.SetGate(ctx, info, db, msg.Gate, msg.Enabled)
	if err != nil {
		return nil, err
	}
	return &quickex.DeliverResult{Events: events}, nil
}
