package escrow

import (
	"context"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/x"
	"github.com/iov-one/quickex/x/cash"
)

// Custody returns the condition of the account that holds all escrowed
// funds.
func Custody() quickex.Condition {
	return quickex.NewCondition("escrow", "custody", nil)
}

// CustodyAddress returns the address of the account that holds all escrowed
// funds.
func CustodyAddress() quickex.Address {
	return Custody().Address()
}

// Controller implements the escrow state machine. Every operation checks
// all preconditions before it writes anything and runs in its own cache wrap
// when the store supports it, so a failed call leaves no trace.
type Controller struct {
	bucket Bucket
	gates  GateChecker
	bank   cash.CoinMover
	auth   x.Authenticator
}

// NewController returns a controller that keeps entries in given bucket,
// moves funds using bank and authenticates the administrator using auth.
func NewController(bucket Bucket, gates GateChecker, bank cash.CoinMover, auth x.Authenticator) Controller {
	return Controller{
		bucket: bucket,
		gates:  gates,
		bank:   bank,
		auth:   auth,
	}
}

// Deposit locks amount of token owned by caller under the commitment.
func (c Controller) Deposit(
	ctx context.Context,
	info quickex.BlockInfo,
	db quickex.KVStore,
	caller quickex.Address,
	token string,
	amount coin.Amount,
	commitment Commitment,
) (*EscrowEntry, []quickex.Event, error) {
	if !amount.IsPositive() {
		return nil, nil, errors.Wrapf(ErrInvalidAmount, "deposit of %s", amount)
	}
	if !coin.IsCC(token) {
		return nil, nil, errors.Wrapf(errors.ErrInput, "invalid token %q", token)
	}
	if err := caller.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "caller")
	}
	switch ok, err := c.gates.IsDepositEnabled(db); {
	case err != nil:
		return nil, nil, err
	case !ok:
		return nil, nil, errors.Wrap(ErrGateDisabled, "deposits are disabled")
	}
	if err := c.bucket.Has(db, commitment[:]); err == nil {
		return nil, nil, errors.Wrapf(ErrDuplicateCommitment, "commitment %s", commitment)
	} else if !errors.ErrNotFound.Is(err) {
		return nil, nil, err
	}

	entry := &EscrowEntry{
		Metadata:  &quickex.Metadata{Schema: CommitmentVersion},
		Token:     token,
		Amount:    &amount,
		Owner:     caller,
		Status:    Pending,
		CreatedAt: info.UnixTime(),
	}
	err := atomically(db, func(db quickex.KVStore) error {
		if err := c.bucket.CreateIfAbsent(db, commitment, entry); err != nil {
			return err
		}
		funds := coin.Coin{Ticker: token, Amount: amount}
		if err := c.bank.MoveCoins(db, caller, CustodyAddress(), funds); err != nil {
			return errors.Wrapf(ErrTransferFailed, "deposit: %s", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	info.Logger().Debug("escrow deposit", "commitment", commitment.String(), "token", token)
	events := []quickex.Event{
		DepositEvent{Commitment: commitment, Token: token, Amount: amount},
	}
	return entry, events, nil
}

// Withdraw releases the funds of the entry derived from the revealed owner,
// amount and salt to the recipient.
func (c Controller) Withdraw(
	ctx context.Context,
	info quickex.BlockInfo,
	db quickex.KVStore,
	owner quickex.Address,
	amount coin.Amount,
	salt []byte,
	recipient quickex.Address,
) (*EscrowEntry, []quickex.Event, error) {
	if err := ValidateSalt(salt); err != nil {
		return nil, nil, err
	}
	if err := recipient.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "recipient")
	}
	commitment := Derive(owner, amount, salt)

	switch ok, err := c.gates.IsWithdrawEnabled(db); {
	case err != nil:
		return nil, nil, err
	case !ok:
		return nil, nil, errors.Wrap(ErrGateDisabled, "withdrawals are disabled")
	}

	entry, err := c.bucket.Get(db, commitment)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow entry")
	}
	if entry == nil {
		return nil, nil, errors.Wrap(ErrEntryNotFound, "no entry matches the reveal")
	}
	if entry.Status != Pending {
		return nil, nil, errors.Wrapf(ErrAlreadySpent, "entry is %s", entry.Status)
	}
	if !entry.Owner.Equals(owner) {
		return nil, nil, errors.Wrap(ErrRevealMismatch, "owner")
	}
	if entry.Amount == nil || !entry.Amount.Equals(amount) {
		return nil, nil, errors.Wrap(ErrRevealMismatch, "amount")
	}

	err = atomically(db, func(db quickex.KVStore) error {
		if err := c.bank.MoveCoins(db, CustodyAddress(), recipient, entry.Coin()); err != nil {
			return errors.Wrapf(ErrTransferFailed, "withdraw: %s", err)
		}
		entry.Status = Spent
		return c.bucket.Update(db, commitment, entry)
	})
	if err != nil {
		return nil, nil, err
	}

	info.Logger().Debug("escrow withdraw", "commitment", commitment.String())
	events := []quickex.Event{
		WithdrawToggledEvent{To: recipient, Commitment: commitment, Timestamp: info.UnixTime()},
	}
	return entry, events, nil
}

// SetGate opens or closes a gate. Only the configuration owner is allowed
// to do that.
func (c Controller) SetGate(
	ctx context.Context,
	info quickex.BlockInfo,
	db quickex.KVStore,
	gate Gate,
	enabled bool,
) (*Configuration, []quickex.Event, error) {
	if err := gate.Validate(); err != nil {
		return nil, nil, err
	}
	conf, err := loadOrNil(db)
	if err != nil {
		return nil, nil, err
	}
	if conf == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "escrow has no administrator")
	}
	if !c.auth.HasAddress(ctx, conf.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "administrator signature required")
	}

	now := info.UnixTime()
	var event quickex.Event
	switch gate {
	case PrivacyGate:
		conf.PrivacyEnabled = enabled
		event = PrivacyToggledEvent{Owner: conf.Owner, Enabled: enabled, Timestamp: now}
	case WithdrawGate:
		conf.WithdrawEnabled = enabled
		event = WithdrawGateToggledEvent{Owner: conf.Owner, Enabled: enabled, Timestamp: now}
	}
	if err := SaveConfiguration(db, conf); err != nil {
		return nil, nil, errors.Wrap(err, "cannot save configuration")
	}
	info.Logger().Info("escrow gate changed", "gate", gate.String(), "enabled", enabled)
	return conf, []quickex.Event{event}, nil
}

// Escrow returns the entry stored under given commitment.
func (c Controller) Escrow(db quickex.ReadOnlyKVStore, commitment Commitment) (*EscrowEntry, error) {
	entry, err := c.bucket.Get(db, commitment)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errors.Wrapf(ErrEntryNotFound, "commitment %s", commitment)
	}
	return entry, nil
}

// Status returns the status of the entry stored under given commitment.
func (c Controller) Status(db quickex.ReadOnlyKVStore, commitment Commitment) (EscrowStatus, error) {
	entry, err := c.Escrow(db, commitment)
	if err != nil {
		return 0, err
	}
	return entry.Status, nil
}

// atomically runs fn in a cache wrap of db if possible. Changes are written
// only if fn succeeds.
func atomically(db quickex.KVStore, fn func(quickex.KVStore) error) error {
	cdb, ok := db.(quickex.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cdb.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "cannot write changes")
	}
	return nil
}
