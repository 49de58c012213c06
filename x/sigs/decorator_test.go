package sigs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/crypto"
	"github.com/iov-one/quickex/store"
	"github.com/iov-one/quickex/weavetest"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(SigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	info, err := quickex.NewBlockInfo(5, time.Now(), chainID, nil)
	require.NoError(t, err)
	ctx := context.Background()

	priv := crypto.GenPrivKeyEd25519()
	perms := []quickex.Condition{priv.PublicKey().Condition()}

	bz := []byte("art")
	tx := NewStdTx(bz)
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	deliver := func(dec quickex.Decorator, my quickex.Tx) error {
		_, err := dec.Deliver(ctx, info, kv, my, signers)
		return err
	}
	check := func(dec quickex.Decorator, my quickex.Tx) error {
		_, err := dec.Check(ctx, info, checkKv, my, signers)
		return err
	}

	for i, fn := range []func(quickex.Decorator, quickex.Tx) error{check, deliver} {
		// test with no sigs
		tx.Signatures = nil
		err := fn(d, tx)
		assert.Error(t, err, "%d", i)

		// test with one
		tx.Signatures = []*StdSignature{sig}
		err = fn(d, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)

		// test with replay
		err = fn(d, tx)
		assert.Error(t, err, "%d", i)

		// test allowing none
		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, []quickex.Condition{}, signers.Signers)

		// test allowing, with next sequence
		tx.Signatures = []*StdSignature{sig1}
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)
	}
}

func TestDecoratorUnsignedTx(t *testing.T) {
	kv := store.MemStore()
	info := weavetest.BlockInfo(t, 1, time.Now())
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/unsigned"}}
	signers := new(SigCheckHandler)

	_, err := NewDecorator().Deliver(context.Background(), info, kv, tx, signers)
	assert.Error(t, err)

	_, err = NewDecorator().AllowMissingSigs().Deliver(context.Background(), info, kv, tx, signers)
	assert.NoError(t, err)
	assert.Empty(t, signers.Signers)
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []quickex.Condition
}

var _ quickex.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx context.Context, info quickex.BlockInfo, store quickex.KVStore, tx quickex.Tx) (*quickex.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &quickex.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx context.Context, info quickex.BlockInfo, store quickex.KVStore, tx quickex.Tx) (*quickex.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &quickex.DeliverResult{}, nil
}
