package escrow

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
)

const (
	// CommitmentLength is the size of a commitment in bytes.
	CommitmentLength = sha256.Size

	// SaltLength is the only accepted salt size.
	SaltLength = 32

	// CommitmentVersion identifies the preimage encoding used by Derive.
	// Changing the encoding changes the meaning of every issued
	// commitment and requires a new version.
	CommitmentVersion = 1
)

// Commitment binds an owner, an amount and a secret salt. It is an opaque
// value, compare it using Equals.
type Commitment [CommitmentLength]byte

// Derive computes the commitment of given preimage.
//
// The preimage is the owner address followed by the 16 byte big endian
// amount and the salt. The salt length is not checked here, callers must
// reject salts of length other than SaltLength.
func Derive(owner quickex.Address, amount coin.Amount, salt []byte) Commitment {
	h := sha256.New()
	_, _ = h.Write(owner)
	_, _ = h.Write(amount.BigEndian())
	_, _ = h.Write(salt)

	var c Commitment
	copy(c[:], h.Sum(nil))
	return c
}

// CommitmentFromBytes returns a commitment from its raw form.
func CommitmentFromBytes(raw []byte) (Commitment, error) {
	var c Commitment
	if len(raw) != CommitmentLength {
		return c, errors.Wrapf(errors.ErrInput, "commitment must be %d bytes, got %d", CommitmentLength, len(raw))
	}
	copy(c[:], raw)
	return c, nil
}

// ParseCommitment decodes a hex encoded commitment.
func ParseCommitment(s string) (Commitment, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Commitment{}, errors.Wrapf(errors.ErrInput, "commitment hex: %s", err)
	}
	return CommitmentFromBytes(raw)
}

// Bytes returns a copy of the raw commitment.
func (c Commitment) Bytes() []byte {
	b := make([]byte, CommitmentLength)
	copy(b, c[:])
	return b
}

func (c Commitment) String() string {
	return hex.EncodeToString(c[:])
}

// Equals compares two commitments in constant time.
func (c Commitment) Equals(o Commitment) bool {
	return subtle.ConstantTimeCompare(c[:], o[:]) == 1
}

// IsZero returns true for the zero value, that is never a valid derivation
// result in practice.
func (c Commitment) IsZero() bool {
	return c.Equals(Commitment{})
}

func (c Commitment) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Commitment) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "commitment must be a hex string")
	}
	parsed, err := ParseCommitment(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ValidateSalt returns an error if the salt cannot be used to derive a
// commitment.
func ValidateSalt(salt []byte) error {
	if len(salt) != SaltLength {
		return errors.Wrapf(errors.ErrInput, "salt must be %d bytes, got %d", SaltLength, len(salt))
	}
	return nil
}

// NewSalt returns a random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "cannot read random salt")
	}
	return salt, nil
}
