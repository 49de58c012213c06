package cash

import (
	"context"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r quickex.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ quickex.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and authorized.
func (h SendHandler) Check(ctx context.Context, info quickex.BlockInfo, store quickex.KVStore, tx quickex.Tx) (*quickex.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &quickex.CheckResult{}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx context.Context, info quickex.BlockInfo, store quickex.KVStore, tx quickex.Tx) (*quickex.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, msg.Coin()); err != nil {
		return nil, err
	}
	return &quickex.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx context.Context, tx quickex.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := quickex.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Make sure we have permission from the source.
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}
