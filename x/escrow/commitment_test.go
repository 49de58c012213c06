package escrow

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/weavetest"
)

func mustSalt(t testing.TB) []byte {
	t.Helper()
	salt, err := NewSalt()
	require.NoError(t, err)
	return salt
}

func TestDeriveIsDeterministic(t *testing.T) {
	owner := weavetest.RandomAddr(t)
	salt := mustSalt(t)
	amount := coin.NewAmount(100)

	a := Derive(owner, amount, salt)
	b := Derive(owner, amount, salt)
	assert.True(t, a.Equals(b))
	assert.Equal(t, a, b)
}

func TestDerivePreimageLayout(t *testing.T) {
	owner := quickex.Address(bytes.Repeat([]byte{0x01}, quickex.AddressLength))
	salt := bytes.Repeat([]byte{0x02}, SaltLength)

	var preimage []byte
	preimage = append(preimage, owner...)
	// 100 as a 16 byte big endian integer.
	preimage = append(preimage, make([]byte, 15)...)
	preimage = append(preimage, 100)
	preimage = append(preimage, salt...)

	want := sha256.Sum256(preimage)
	got := Derive(owner, coin.NewAmount(100), salt)
	assert.Equal(t, want[:], got.Bytes())
}

func TestDeriveNegativeAmountEncoding(t *testing.T) {
	owner := weavetest.RandomAddr(t)
	salt := mustSalt(t)

	var preimage []byte
	preimage = append(preimage, owner...)
	preimage = append(preimage, bytes.Repeat([]byte{0xff}, 16)...)
	preimage = append(preimage, salt...)

	want := sha256.Sum256(preimage)
	assert.Equal(t, want[:], Derive(owner, coin.NewAmount(-1), salt).Bytes())
}

func TestDeriveDoesNotCollide(t *testing.T) {
	const n = 10000

	seen := make(map[Commitment]struct{}, n)
	for i := 0; i < n; i++ {
		owner := weavetest.RandomAddr(t)
		// Random positive amounts up to 2^100.
		raw, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 100))
		require.NoError(t, err)
		amount, err := coin.AmountFromBig(raw.Add(raw, big.NewInt(1)))
		require.NoError(t, err)

		c := Derive(owner, amount, mustSalt(t))
		if _, ok := seen[c]; ok {
			t.Fatalf("collision after %d derivations: %s", i, c)
		}
		seen[c] = struct{}{}
	}
}

func TestDeriveDependsOnEveryField(t *testing.T) {
	owner := weavetest.RandomAddr(t)
	salt := mustSalt(t)
	amount := coin.NewAmount(100)
	base := Derive(owner, amount, salt)

	otherSalt := append([]byte{}, salt...)
	otherSalt[SaltLength-1] ^= 0x01

	variants := map[string]Commitment{
		"owner":  Derive(weavetest.RandomAddr(t), amount, salt),
		"amount": Derive(owner, coin.NewAmount(101), salt),
		"salt":   Derive(owner, amount, otherSalt),
	}
	for name, c := range variants {
		if c.Equals(base) {
			t.Errorf("changing %s does not change the commitment", name)
		}
	}
}

func TestCommitmentEncoding(t *testing.T) {
	c := Derive(weavetest.RandomAddr(t), coin.NewAmount(5), mustSalt(t))

	parsed, err := ParseCommitment(c.String())
	require.NoError(t, err)
	assert.True(t, c.Equals(parsed))

	fromRaw, err := CommitmentFromBytes(c.Bytes())
	require.NoError(t, err)
	assert.True(t, c.Equals(fromRaw))

	// Bytes returns a copy.
	raw := c.Bytes()
	raw[0] ^= 0xff
	assert.NotEqual(t, raw, c.Bytes())

	js, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"`+c.String()+`"`, string(js))
	var back Commitment
	require.NoError(t, json.Unmarshal(js, &back))
	assert.True(t, c.Equals(back))

	assert.False(t, c.IsZero())
	assert.True(t, Commitment{}.IsZero())
}

func TestCommitmentParseErrors(t *testing.T) {
	cases := map[string]string{
		"not hex":   "zz",
		"too short": "abcd",
		"too long":  hex.EncodeToString(make([]byte, CommitmentLength+1)),
		"empty":     "",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCommitment(input)
			assert.True(t, errors.ErrInput.Is(err), "got %v", err)
		})
	}

	var c Commitment
	err := json.Unmarshal([]byte(`123`), &c)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestValidateSalt(t *testing.T) {
	assert.NoError(t, ValidateSalt(make([]byte, SaltLength)))
	assert.True(t, errors.ErrInput.Is(ValidateSalt(nil)))
	assert.True(t, errors.ErrInput.Is(ValidateSalt(make([]byte, SaltLength-1))))
	assert.True(t, errors.ErrInput.Is(ValidateSalt(make([]byte, SaltLength+1))))

	a, b := mustSalt(t), mustSalt(t)
	assert.Len(t, a, SaltLength)
	assert.NotEqual(t, a, b)
}
