package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Balance is the amount of a single token owned by an address.
type Balance struct {
	Metadata *quickex.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Owner    quickex.Address   `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/quickex.Address" json:"owner,omitempty"`
	Ticker   string            `protobuf:"bytes,3,opt,name=ticker,proto3" json:"ticker,omitempty"`
	Amount   *coin.Amount      `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (b *Balance) Reset()         { *b = Balance{} }
func (b *Balance) String() string { return proto.CompactTextString(b) }
func (*Balance) ProtoMessage()    {}

var _ orm.Model = (*Balance)(nil)

// Validate makes sure the balance belongs to a valid address, is of a valid
// token and is not negative.
func (b *Balance) Validate() error {
	if err := b.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := b.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if !coin.IsCC(b.Ticker) {
		return errors.Wrapf(errors.ErrInput, "invalid ticker %q", b.Ticker)
	}
	if b.Amount == nil {
		return errors.Wrap(errors.ErrEmpty, "amount")
	}
	if b.Amount.IsNegative() {
		return errors.Wrap(errors.ErrInsufficientAmount, "negative balance")
	}
	return nil
}

// Coin returns the balance as a coin.
func (b *Balance) Coin() coin.Coin {
	c := coin.Coin{Ticker: b.Ticker}
	if b.Amount != nil {
		c.Amount = *b.Amount
	}
	return c
}

// Bucket is a type-safe wrapper around orm.ModelBucket
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Balance{}),
	}
}

// balanceKey is the owner address followed by the ticker. Addresses have a
// fixed length, so the key is unambiguous and all balances of an owner share
// the address prefix.
func balanceKey(owner quickex.Address, ticker string) []byte {
	key := make([]byte, 0, len(owner)+len(ticker))
	key = append(key, owner...)
	return append(key, ticker...)
}

// Get returns the balance of given token, or nil if the owner never held it.
func (b Bucket) Get(db quickex.ReadOnlyKVStore, owner quickex.Address, ticker string) (*Balance, error) {
	var bal Balance
	switch err := b.One(db, balanceKey(owner, ticker), &bal); {
	case err == nil:
		return &bal, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// GetOrCreate returns the stored balance or a zero one.
func (b Bucket) GetOrCreate(db quickex.ReadOnlyKVStore, owner quickex.Address, ticker string) (*Balance, error) {
	bal, err := b.Get(db, owner, ticker)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		zero := coin.NewAmount(0)
		bal = &Balance{
			Metadata: &quickex.Metadata{Schema: 1},
			Owner:    owner,
			Ticker:   ticker,
			Amount:   &zero,
		}
	}
	return bal, nil
}

// Save validates and stores the balance.
func (b Bucket) Save(db quickex.KVStore, bal *Balance) error {
	return b.Put(db, balanceKey(bal.Owner, bal.Ticker), bal)
}

// All returns all balances of given owner ordered by ticker.
func (b Bucket) All(db quickex.ReadOnlyKVStore, owner quickex.Address) ([]*Balance, error) {
	it, err := b.Scan(db, owner, false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []*Balance
	for {
		var bal Balance
		switch _, err := it.Next(&bal); {
		case err == nil:
			res = append(res, &bal)
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}
