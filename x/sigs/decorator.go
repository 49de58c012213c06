package sigs

import (
	"context"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
)

// Decorator verifies the signatures and adds them to the context
type Decorator struct {
	allowMissingSigs bool
}

var _ quickex.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator,
// which appends the chainID before checking the signature,
// and requires at least one signature to be present
func NewDecorator() Decorator {
	return Decorator{
		allowMissingSigs: false,
	}
}

// AllowMissingSigs allows us to pass along items with no signatures
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx context.Context, info quickex.BlockInfo, store quickex.KVStore, tx quickex.Tx, next quickex.Checker) (*quickex.CheckResult, error) {
	ctx, err := d.withVerifiedSigners(ctx, info, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, info, store, tx)
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx context.Context, info quickex.BlockInfo, store quickex.KVStore, tx quickex.Tx, next quickex.Deliverer) (*quickex.DeliverResult, error) {
	ctx, err := d.withVerifiedSigners(ctx, info, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, info, store, tx)
}

func (d Decorator) withVerifiedSigners(ctx context.Context, info quickex.BlockInfo, store quickex.KVStore, tx quickex.Tx) (context.Context, error) {
	var signers []quickex.Condition
	if stx, ok := tx.(SignedTx); ok {
		var err error
		signers, err = VerifyTxSignatures(store, stx, info.ChainID())
		if err != nil {
			return nil, errors.Wrap(err, "cannot verify signatures")
		}
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
