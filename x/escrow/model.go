package escrow

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/migration"
	"github.com/iov-one/quickex/orm"
)

// BucketName is where the escrow entries are stored.
const BucketName = "escrow"

// EscrowStatus is the lifecycle state of an escrow entry.
type EscrowStatus int32

const (
	// Pending entries hold funds that can be withdrawn.
	Pending EscrowStatus = 0
	// Spent entries were withdrawn. This state is final.
	Spent EscrowStatus = 1
	// Expired is a final state reserved for expiration. No operation
	// transitions an entry into it.
	Expired EscrowStatus = 2
)

var statusNames = map[EscrowStatus]string{
	Pending: "pending",
	Spent:   "spent",
	Expired: "expired",
}

func (s EscrowStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("EscrowStatus(%d)", int32(s))
}

// Validate returns an error for an unknown status.
func (s EscrowStatus) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errors.Wrapf(errors.ErrState, "unknown status %d", int32(s))
	}
	return nil
}

// IsTerminal returns true if no transition out of this status exists.
func (s EscrowStatus) IsTerminal() bool {
	return s != Pending
}

// MarshalJSON renders the status name.
func (s EscrowStatus) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// EscrowEntry is the record of a single deposit.
type EscrowEntry struct {
	Metadata  *quickex.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Token     string            `protobuf:"bytes,2,opt,name=token,proto3" json:"token"`
	Amount    *coin.Amount      `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount"`
	Owner     quickex.Address   `protobuf:"bytes,4,opt,name=owner,proto3,casttype=github.com/iov-one/quickex.Address" json:"owner"`
	Status    EscrowStatus      `protobuf:"varint,5,opt,name=status,proto3" json:"status"`
	CreatedAt quickex.UnixTime  `protobuf:"varint,6,opt,name=created_at,json=createdAt,proto3,casttype=github.com/iov-one/quickex.UnixTime" json:"created_at"`
}

func (e *EscrowEntry) Reset()         { *e = EscrowEntry{} }
func (e *EscrowEntry) String() string { return proto.CompactTextString(e) }
func (*EscrowEntry) ProtoMessage()    {}

var _ orm.Model = (*EscrowEntry)(nil)
var _ migration.Migratable = (*EscrowEntry)(nil)

func init() {
	migration.MustRegister(1, &EscrowEntry{}, migration.NoModification)
}

// GetMetadata returns the entry metadata, nil safe.
func (e *EscrowEntry) GetMetadata() *quickex.Metadata {
	if e == nil {
		return nil
	}
	return e.Metadata
}

// Validate ensures the entry can be stored.
func (e *EscrowEntry) Validate() error {
	if err := e.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if !coin.IsCC(e.Token) {
		return errors.Wrapf(errors.ErrInput, "invalid token %q", e.Token)
	}
	if e.Amount == nil || !e.Amount.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	if err := e.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := e.Status.Validate(); err != nil {
		return err
	}
	if e.CreatedAt < 0 {
		return errors.Wrap(errors.ErrState, "negative creation time")
	}
	return nil
}

// Coin returns the escrowed value.
func (e *EscrowEntry) Coin() coin.Coin {
	c := coin.Coin{Ticker: e.Token}
	if e.Amount != nil {
		c.Amount = *e.Amount
	}
	return c
}

// Bucket stores escrow entries keyed by their commitment.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket that uses the default name.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &EscrowEntry{}),
	}
}

// CreateIfAbsent stores a new entry. It fails with ErrDuplicateCommitment if
// the commitment is already in use, leaving the existing entry untouched.
func (b Bucket) CreateIfAbsent(db quickex.KVStore, c Commitment, e *EscrowEntry) error {
	err := b.Create(db, c[:], e)
	if errors.ErrDuplicate.Is(err) {
		return errors.Wrapf(ErrDuplicateCommitment, "commitment %s", c)
	}
	return err
}

// Get returns the entry stored under given commitment, or nil if there is
// none.
func (b Bucket) Get(db quickex.ReadOnlyKVStore, c Commitment) (*EscrowEntry, error) {
	var e EscrowEntry
	switch err := b.One(db, c[:], &e); {
	case err == nil:
		if err := migration.Apply(db, &e, CommitmentVersion); err != nil {
			return nil, errors.Wrapf(err, "commitment %s", c)
		}
		return &e, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// Update overwrites an existing entry. It never creates one.
func (b Bucket) Update(db quickex.KVStore, c Commitment, e *EscrowEntry) error {
	if err := b.Has(db, c[:]); err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrapf(ErrEntryNotFound, "commitment %s", c)
		}
		return err
	}
	return b.Put(db, c[:], e)
}

// Iterate calls fn for every stored entry in commitment order. Return
// errors.ErrIteratorDone from fn to stop early without an error.
func (b Bucket) Iterate(db quickex.ReadOnlyKVStore, fn func(Commitment, *EscrowEntry) error) error {
	it, err := b.Scan(db, nil, false)
	if err != nil {
		return err
	}
	defer it.Release()

	for {
		var e EscrowEntry
		key, err := it.Next(&e)
		if err != nil {
			if errors.ErrIteratorDone.Is(err) {
				return nil
			}
			return err
		}
		c, err := CommitmentFromBytes(key)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "malformed escrow key")
		}
		if err := migration.Apply(db, &e, CommitmentVersion); err != nil {
			return errors.Wrapf(err, "commitment %s", c)
		}
		if err := fn(c, &e); err != nil {
			if errors.ErrIteratorDone.Is(err) {
				return nil
			}
			return err
		}
	}
}
