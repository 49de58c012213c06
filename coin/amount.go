package coin

import (
	"encoding/binary"
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/iov-one/quickex/errors"
)

// Amount is a signed 128 bit integer kept in two's complement form. Hi holds
// the upper 64 bits including the sign, Lo the lower 64 bits.
//
// The zero value is a valid zero amount.
type Amount struct {
	Hi int64  `protobuf:"varint,1,opt,name=hi,proto3" json:"hi,omitempty"`
	Lo uint64 `protobuf:"varint,2,opt,name=lo,proto3" json:"lo,omitempty"`
}

func (a *Amount) Reset()      { *a = Amount{} }
func (*Amount) ProtoMessage() {}

// AmountSize is the length of the big endian encoding of an amount.
const AmountSize = 16

var (
	maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minAmount = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	lowMask   = new(big.Int).SetUint64(^uint64(0))
)

// NewAmount returns an amount of given value.
func NewAmount(n int64) Amount {
	hi := int64(0)
	if n < 0 {
		hi = -1
	}
	return Amount{Hi: hi, Lo: uint64(n)}
}

// AmountFromBig converts given integer into an amount. ErrOverflow is
// returned if the value does not fit 128 bits.
func AmountFromBig(n *big.Int) (Amount, error) {
	if n.Cmp(maxAmount) > 0 || n.Cmp(minAmount) < 0 {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s", n)
	}
	lo := new(big.Int).And(n, lowMask)
	hi := new(big.Int).Rsh(n, 64)
	return Amount{Hi: hi.Int64(), Lo: lo.Uint64()}, nil
}

// ParseAmount decodes a base 10 integer.
func ParseAmount(s string) (Amount, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, errors.Wrapf(errors.ErrInput, "invalid amount %q", s)
	}
	return AmountFromBig(n)
}

// Big returns the value as an arbitrary precision integer.
func (a Amount) Big() *big.Int {
	n := big.NewInt(a.Hi)
	n.Lsh(n, 64)
	return n.Add(n, new(big.Int).SetUint64(a.Lo))
}

// BigEndian returns the 16 byte two's complement big endian encoding.
func (a Amount) BigEndian() []byte {
	raw := make([]byte, AmountSize)
	binary.BigEndian.PutUint64(raw[:8], uint64(a.Hi))
	binary.BigEndian.PutUint64(raw[8:], a.Lo)
	return raw
}

// AmountFromBigEndian is the reverse of BigEndian.
func AmountFromBigEndian(raw []byte) (Amount, error) {
	if len(raw) != AmountSize {
		return Amount{}, errors.Wrapf(errors.ErrInput, "amount must be %d bytes", AmountSize)
	}
	return Amount{
		Hi: int64(binary.BigEndian.Uint64(raw[:8])),
		Lo: binary.BigEndian.Uint64(raw[8:]),
	}, nil
}

// Add returns the sum of both amounts or ErrOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	return AmountFromBig(new(big.Int).Add(a.Big(), b.Big()))
}

// Sub returns the difference of both amounts or ErrOverflow.
func (a Amount) Sub(b Amount) (Amount, error) {
	return AmountFromBig(new(big.Int).Sub(a.Big(), b.Big()))
}

// Cmp returns -1, 0 or 1 when a is respectively lower, equal or greater
// than b.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.Hi < b.Hi:
		return -1
	case a.Hi > b.Hi:
		return 1
	case a.Lo < b.Lo:
		return -1
	case a.Lo > b.Lo:
		return 1
	}
	return 0
}

// Equals returns true if both amounts represent the same value.
func (a Amount) Equals(b Amount) bool {
	return a.Hi == b.Hi && a.Lo == b.Lo
}

func (a Amount) IsZero() bool {
	return a.Hi == 0 && a.Lo == 0
}

func (a Amount) IsPositive() bool {
	return a.Hi > 0 || (a.Hi == 0 && a.Lo > 0)
}

func (a Amount) IsNegative() bool {
	return a.Hi < 0
}

// String returns the base 10 representation.
func (a Amount) String() string {
	if a.Hi == 0 {
		return strconv.FormatUint(a.Lo, 10)
	}
	return a.Big().String()
}

// MarshalJSON encodes the amount as a base 10 string, so that no precision
// is lost by JSON decoders using floats.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a string and a number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrInput, "amount must be a string or a number")
		}
		s = n.String()
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
