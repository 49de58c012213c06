package sigs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/quickex/crypto"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/store"
	"github.com/iov-one/quickex/weavetest"
)

const testChainID = "quickex-test"

func TestBuildSignBytes(t *testing.T) {
	deposit := []byte("escrow/deposit 40 QEX")

	want, err := BuildSignBytes(deposit, testChainID, 3)
	require.NoError(t, err)
	assert.NotEqual(t, deposit, want)

	fromTx, err := BuildSignBytesTx(NewStdTx(deposit), testChainID, 3)
	require.NoError(t, err)
	assert.Equal(t, want, fromTx)

	cases := map[string]struct {
		payload []byte
		chainID string
		seq     int64
	}{
		"other payload":  {payload: []byte("escrow/deposit 41 QEX"), chainID: testChainID, seq: 3},
		"other chain":    {payload: deposit, chainID: "quickex-prod", seq: 3},
		"other sequence": {payload: deposit, chainID: testChainID, seq: 4},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := BuildSignBytes(tc.payload, tc.chainID, tc.seq)
			require.NoError(t, err)
			assert.NotEqual(t, want, got)
		})
	}
}

func TestBuildSignBytesRejectsInvalidInput(t *testing.T) {
	_, err := BuildSignBytes([]byte("x"), testChainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes([]byte("x"), "bad chain id!", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignatureSequence(t *testing.T) {
	depositor := weavetest.NewKey()
	payload := []byte("escrow/set_gate withdraw on")

	sign := func(seq int64, chainID string) *StdSignature {
		sig, err := SignTx(depositor, NewStdTx(payload), chainID, seq)
		require.NoError(t, err)
		return sig
	}

	again, err := SignTx(depositor, NewStdTx(payload), testChainID, 2)
	require.NoError(t, err)
	assert.Equal(t, sign(2, testChainID), again, "signing must be deterministic")

	kv := store.MemStore()
	// Each step runs against the state left by the previous one.
	steps := []struct {
		name    string
		sig     *StdSignature
		wantErr *errors.Error
	}{
		{name: "empty signature", sig: new(StdSignature), wantErr: errors.ErrUnauthorized},
		{name: "must start at zero", sig: sign(1, testChainID), wantErr: ErrInvalidSequence},
		{name: "first", sig: sign(0, testChainID)},
		{name: "next", sig: sign(1, testChainID)},
		{name: "replay", sig: sign(1, testChainID), wantErr: ErrInvalidSequence},
		{name: "jump ahead", sig: sign(9, testChainID), wantErr: ErrInvalidSequence},
		{name: "other chain", sig: sign(2, "quickex-prod"), wantErr: errors.ErrUnauthorized},
	}
	for _, s := range steps {
		cond, err := VerifySignature(kv, s.sig, payload, testChainID)
		if s.wantErr != nil {
			assert.True(t, s.wantErr.Is(err), "%s: got %+v", s.name, err)
			continue
		}
		require.NoError(t, err, s.name)
		assert.Equal(t, depositor.PublicKey().Condition(), cond, s.name)
	}

	tampered := sign(2, testChainID)
	copy(tampered.Signature.GetEd25519(), []byte{42, 17, 99})
	_, err = VerifySignature(kv, tampered, payload, testChainID)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	// only the two accepted signatures moved the sequence
	seq, err := NextNonce(kv, depositor.PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestVerifyTxSignatures(t *testing.T) {
	var (
		kv        = store.MemStore()
		depositor = weavetest.NewKey()
		admin     = weavetest.NewKey()
		deposit   = NewStdTx([]byte("escrow/deposit 40 QEX"))
		other     = NewStdTx([]byte("escrow/deposit 10 QEX"))
	)

	sig := func(tx *StdTx, key *crypto.PrivateKey, seq int64) *StdSignature {
		t.Helper()
		s, err := SignTx(key, tx, testChainID, seq)
		require.NoError(t, err)
		return s
	}

	// Each step runs against the state left by the previous one.
	steps := []struct {
		name        string
		sigs        []*StdSignature
		wantErr     bool
		wantSigners int
	}{
		{name: "unsigned", sigs: nil},
		{name: "signature of another tx", sigs: []*StdSignature{sig(other, depositor, 0)}, wantErr: true},
		{name: "depositor", sigs: []*StdSignature{sig(deposit, depositor, 0)}, wantSigners: 1},
		{name: "depositor replay blocks admin", sigs: []*StdSignature{sig(deposit, depositor, 0), sig(deposit, admin, 0)}, wantErr: true},
		{name: "depositor and admin", sigs: []*StdSignature{sig(deposit, depositor, 1), sig(deposit, admin, 0)}, wantSigners: 2},
	}
	for _, s := range steps {
		deposit.Signatures = s.sigs
		signers, err := VerifyTxSignatures(kv, deposit, testChainID)
		if s.wantErr {
			assert.Error(t, err, s.name)
			continue
		}
		require.NoError(t, err, s.name)
		assert.Len(t, signers, s.wantSigners, s.name)
	}

	signers, err := VerifyTxSignatures(kv, deposit, testChainID)
	assert.True(t, ErrInvalidSequence.Is(err), "got %+v", err)
	assert.Nil(t, signers)
}
