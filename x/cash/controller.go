package cash

import (
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
)

// CoinMover is an interface for moving tokens between addresses. Any
// extension that holds or releases funds depends on this interface only.
type CoinMover interface {
	MoveCoins(db quickex.KVStore, src, dest quickex.Address, amount coin.Coin) error
}

// Controller is the functionality needed by cash.Handler and genesis
// initialization.
type Controller interface {
	CoinMover
	IssueCoins(db quickex.KVStore, dest quickex.Address, amount coin.Coin) error
	Balance(db quickex.ReadOnlyKVStore, addr quickex.Address) ([]coin.Coin, error)
}

// BaseController is a simple implementation of the controller that keeps
// the balances in a bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db quickex.KVStore, src, dest quickex.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.bucket.Get(db, src, amount.Ticker)
	if err != nil {
		return errors.Wrap(err, "cannot load sender balance")
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "no %s balance", amount.Ticker)
	}
	left, err := sender.Amount.Sub(amount.Amount)
	if err != nil {
		return err
	}
	if left.IsNegative() {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s available", sender.Coin())
	}
	sender.Amount = &left
	if err := c.bucket.Save(db, sender); err != nil {
		return errors.Wrap(err, "cannot save sender balance")
	}

	// Load after the sender is saved, so that moving to self is a no-op.
	recipient, err := c.bucket.GetOrCreate(db, dest, amount.Ticker)
	if err != nil {
		return errors.Wrap(err, "cannot load recipient balance")
	}
	total, err := recipient.Amount.Add(amount.Amount)
	if err != nil {
		return err
	}
	recipient.Amount = &total
	if err := c.bucket.Save(db, recipient); err != nil {
		return errors.Wrap(err, "cannot save recipient balance")
	}
	return nil
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c BaseController) IssueCoins(db quickex.KVStore, dest quickex.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest, amount.Ticker)
	if err != nil {
		return err
	}
	total, err := recipient.Amount.Add(amount.Amount)
	if err != nil {
		return err
	}
	recipient.Amount = &total
	return c.bucket.Save(db, recipient)
}

// Balance returns all tokens held by given address. An address that never
// held anything has an empty balance.
func (c BaseController) Balance(db quickex.ReadOnlyKVStore, addr quickex.Address) ([]coin.Coin, error) {
	all, err := c.bucket.All(db, addr)
	if err != nil {
		return nil, err
	}
	coins := make([]coin.Coin, 0, len(all))
	for _, b := range all {
		coins = append(coins, b.Coin())
	}
	return coins, nil
}

// BalanceOf returns the amount of a single token held by given address.
func (c BaseController) BalanceOf(db quickex.ReadOnlyKVStore, addr quickex.Address, ticker string) (coin.Amount, error) {
	b, err := c.bucket.Get(db, addr, ticker)
	if err != nil || b == nil {
		return coin.Amount{}, err
	}
	return *b.Amount, nil
}
