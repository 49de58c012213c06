package app

import (
	"testing"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/store"
	"github.com/iov-one/quickex/weavetest"
	"github.com/iov-one/quickex/x/cash"
	"github.com/iov-one/quickex/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRoundTrip(t *testing.T) {
	amount := coin.NewAmount(5)
	msg := &cash.SendMsg{
		Source:      weavetest.RandomAddr(t),
		Destination: weavetest.RandomAddr(t),
		Ticker:      "QEX",
		Amount:      &amount,
	}
	tx, err := NewTx(msg)
	require.NoError(t, err)
	assert.Equal(t, "cash/send", tx.Path)

	key := weavetest.NewKey()
	require.NoError(t, tx.Sign(key, "test-chain", 0))
	require.Len(t, tx.GetSignatures(), 1)

	raw, err := tx.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeTx(raw)
	require.NoError(t, err)

	got, err := decoded.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, msg.Destination, got.(*cash.SendMsg).Destination)

	// sign bytes do not depend on signatures
	want, err := (&Tx{Path: tx.Path, Payload: tx.Payload}).GetSignBytes()
	require.NoError(t, err)
	signBytes, err := decoded.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, want, signBytes)

	conds, err := sigs.VerifyTxSignatures(store.MemStore(), decoded, "test-chain")
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().Condition(), conds[0])

	_, err = sigs.VerifyTxSignatures(store.MemStore(), decoded, "other-chain")
	assert.Error(t, err)
}

func TestUnsignedTxBytesAreSignBytes(t *testing.T) {
	amount := coin.NewAmount(1)
	tx, err := NewTx(&cash.SendMsg{
		Source:      weavetest.RandomAddr(t),
		Destination: weavetest.RandomAddr(t),
		Ticker:      "QEX",
		Amount:      &amount,
	})
	require.NoError(t, err)

	signBytes, err := tx.GetSignBytes()
	require.NoError(t, err)
	raw, err := tx.Bytes()
	require.NoError(t, err)
	assert.Equal(t, raw, signBytes)

	viaCodec, err := quickex.Marshal(tx)
	require.NoError(t, err)
	assert.Equal(t, raw, viaCodec)
}

func TestTxWithoutMessage(t *testing.T) {
	_, err := (&Tx{}).GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))

	_, err = DecodeTx([]byte("not a protobuf message"))
	assert.Error(t, err)
}
