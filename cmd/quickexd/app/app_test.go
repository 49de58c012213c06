package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/app"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/crypto"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/eventlog"
	"github.com/iov-one/quickex/weavetest"
	"github.com/iov-one/quickex/x/cash"
	"github.com/iov-one/quickex/x/escrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainID = "quickex-test"

type scenario struct {
	t      *testing.T
	engine *app.Engine
	events *eventlog.Recorder
	seqs   map[string]int64
}

func newScenario(t *testing.T, genesis string) *scenario {
	events := &eventlog.Recorder{}
	engine, kv, err := Application("", events, nil)
	require.NoError(t, err)
	t.Cleanup(kv.Close)

	engine.WithClock(func() time.Time { return time.Unix(1550000000, 0) })

	var gen app.Genesis
	require.NoError(t, json.Unmarshal([]byte(genesis), &gen))
	require.NoError(t, engine.InitChain(&gen, Initializers()))
	return &scenario{t: t, engine: engine, events: events, seqs: make(map[string]int64)}
}

func (s *scenario) deliver(msg quickex.Msg, signers ...*crypto.PrivateKey) error {
	s.t.Helper()
	tx, err := app.NewTx(msg)
	require.NoError(s.t, err)
	for _, key := range signers {
		addr := key.PublicKey().Address().String()
		require.NoError(s.t, tx.Sign(key, chainID, s.seqs[addr]))
	}
	if _, err := s.engine.Deliver(context.Background(), tx); err != nil {
		return err
	}
	for _, key := range signers {
		s.seqs[key.PublicKey().Address().String()]++
	}
	return nil
}

func (s *scenario) balance(addr quickex.Address) coin.Amount {
	s.t.Helper()
	var amount coin.Amount
	err := s.engine.Read(func(db quickex.ReadOnlyKVStore) error {
		var err error
		amount, err = cash.NewController(cash.NewBucket()).BalanceOf(db, addr, "QEX")
		return err
	})
	require.NoError(s.t, err)
	return amount
}

func (s *scenario) entry(c escrow.Commitment) *escrow.EscrowEntry {
	s.t.Helper()
	var entry *escrow.EscrowEntry
	err := s.engine.Read(func(db quickex.ReadOnlyKVStore) error {
		var err error
		entry, err = escrow.NewBucket().Get(db, c)
		return err
	})
	require.NoError(s.t, err)
	return entry
}

func amountPtr(n int64) *coin.Amount {
	a := coin.NewAmount(n)
	return &a
}

func TestEscrowScenario(t *testing.T) {
	var (
		admin = weavetest.NewKey()
		alice = weavetest.NewKey()
		owner = alice.PublicKey().Address()
		carol = weavetest.RandomAddr(t)
	)
	s := newScenario(t, fmt.Sprintf(`{
		"chain_id": %q,
		"app_state": {
			"cash": [{"address": %q, "coins": ["100 QEX"]}],
			"conf": {"escrow": {
				"metadata": {"schema": 1},
				"owner": %q,
				"privacy_enabled": true,
				"withdraw_enabled": true
			}}
		}
	}`, chainID, alice.PublicKey().Address().String(), admin.PublicKey().Address().String()))

	salt := make([]byte, escrow.SaltLength)
	for i := range salt {
		salt[i] = byte(i)
	}
	commitment := escrow.Derive(owner, coin.NewAmount(40), salt)

	// alice locks funds that only the holder of the preimage can claim
	err := s.deliver(&escrow.DepositMsg{
		Metadata:   &quickex.Metadata{Schema: 1},
		Token:      "QEX",
		Amount:     amountPtr(40),
		Commitment: commitment.Bytes(),
	}, alice)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(60), s.balance(alice.PublicKey().Address()))
	assert.Equal(t, coin.NewAmount(40), s.balance(escrow.CustodyAddress()))
	assert.Equal(t, escrow.Pending, s.entry(commitment).Status)

	// the same commitment cannot be reused
	err = s.deliver(&escrow.DepositMsg{
		Metadata:   &quickex.Metadata{Schema: 1},
		Token:      "QEX",
		Amount:     amountPtr(10),
		Commitment: commitment.Bytes(),
	}, alice)
	assert.True(t, escrow.ErrDuplicateCommitment.Is(err), "got %+v", err)
	assert.Equal(t, coin.NewAmount(60), s.balance(alice.PublicKey().Address()))

	withdraw := &escrow.WithdrawMsg{
		Metadata:  &quickex.Metadata{Schema: 1},
		Owner:     owner,
		Amount:    amountPtr(40),
		Salt:      salt,
		Recipient: carol,
	}

	// the withdraw gate is closed by the administrator
	require.NoError(t, s.deliver(&escrow.SetGateMsg{
		Metadata: &quickex.Metadata{Schema: 1},
		Gate:     escrow.WithdrawGate,
		Enabled:  false,
	}, admin))
	err = s.deliver(withdraw)
	assert.True(t, escrow.ErrGateDisabled.Is(err), "got %+v", err)

	// only the administrator can open it
	err = s.deliver(&escrow.SetGateMsg{
		Metadata: &quickex.Metadata{Schema: 1},
		Gate:     escrow.WithdrawGate,
		Enabled:  true,
	}, alice)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)
	require.NoError(t, s.deliver(&escrow.SetGateMsg{
		Metadata: &quickex.Metadata{Schema: 1},
		Gate:     escrow.WithdrawGate,
		Enabled:  true,
	}, admin))

	// withdrawal does not need a signature
	require.NoError(t, s.deliver(withdraw))
	assert.Equal(t, coin.NewAmount(40), s.balance(carol))
	assert.Equal(t, coin.NewAmount(0), s.balance(escrow.CustodyAddress()))
	assert.Equal(t, escrow.Spent, s.entry(commitment).Status)

	err = s.deliver(withdraw)
	assert.True(t, escrow.ErrAlreadySpent.Is(err), "got %+v", err)
	assert.Equal(t, coin.NewAmount(40), s.balance(carol))

	assert.Equal(t, []string{
		escrow.KindDeposit,
		escrow.KindWithdrawGateToggled,
		escrow.KindWithdrawGateToggled,
		escrow.KindWithdrawToggled,
	}, s.events.Kinds())

	got := s.events.Events()[3].(escrow.WithdrawToggledEvent)
	assert.Equal(t, carol, got.To)
	assert.True(t, commitment.Equals(got.Commitment))
}

func TestGenesisWithoutEscrowConfiguration(t *testing.T) {
	alice := weavetest.NewKey()
	s := newScenario(t, fmt.Sprintf(`{
		"chain_id": %q,
		"app_state": {"cash": [{"address": %q, "coins": ["10 QEX"]}]}
	}`, chainID, alice.PublicKey().Address().String()))

	salt := make([]byte, escrow.SaltLength)
	err := s.deliver(&escrow.DepositMsg{
		Metadata:   &quickex.Metadata{Schema: 1},
		Token:      "QEX",
		Amount:     amountPtr(1),
		Commitment: escrow.Derive(alice.PublicKey().Address(), coin.NewAmount(1), salt).Bytes(),
	}, alice)
	assert.True(t, escrow.ErrGateDisabled.Is(err), "got %+v", err)
	assert.Empty(t, s.events.Events())
	assert.Equal(t, coin.NewAmount(10), s.balance(alice.PublicKey().Address()))
}

func TestRouterPaths(t *testing.T) {
	paths := Router(Authenticator()).Paths()
	for _, want := range []string{
		"cash/send",
		"escrow/deposit",
		"escrow/withdraw",
		"escrow/set_gate",
		"escrow/update_configuration",
	} {
		assert.Contains(t, paths, want)
	}
}

func TestConcurrentDepositsOfOneCommitment(t *testing.T) {
	const depositors = 8

	keys := make([]*crypto.PrivateKey, depositors)
	accounts := make([]string, depositors)
	for i := range keys {
		keys[i] = weavetest.NewKey()
		accounts[i] = fmt.Sprintf(`{"address": %q, "coins": ["10 QEX"]}`, keys[i].PublicKey().Address().String())
	}
	s := newScenario(t, fmt.Sprintf(`{
		"chain_id": %q,
		"app_state": {
			"cash": [%s],
			"conf": {"escrow": {
				"metadata": {"schema": 1},
				"owner": %q,
				"privacy_enabled": true,
				"withdraw_enabled": true
			}}
		}
	}`, chainID, strings.Join(accounts, ","), weavetest.RandomAddr(t).String()))

	salt := make([]byte, escrow.SaltLength)
	commitment := escrow.Derive(keys[0].PublicKey().Address(), coin.NewAmount(10), salt)

	// every signer uses a fresh account, so all transactions can be signed
	// upfront with sequence 0
	txs := make([]*app.Tx, depositors)
	for i, key := range keys {
		tx, err := app.NewTx(&escrow.DepositMsg{
			Metadata:   &quickex.Metadata{Schema: 1},
			Token:      "QEX",
			Amount:     amountPtr(10),
			Commitment: commitment.Bytes(),
		})
		require.NoError(t, err)
		require.NoError(t, tx.Sign(key, chainID, 0))
		txs[i] = tx
	}

	results := make([]error, depositors)
	var wg sync.WaitGroup
	for i := range txs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = s.engine.Deliver(context.Background(), txs[i])
		}(i)
	}
	wg.Wait()

	var wins, dups int
	for i, err := range results {
		switch {
		case err == nil:
			wins++
		case escrow.ErrDuplicateCommitment.Is(err):
			dups++
			assert.Equal(t, coin.NewAmount(10), s.balance(keys[i].PublicKey().Address()))
		default:
			t.Errorf("depositor %d: unexpected error %+v", i, err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, depositors-1, dups)
	assert.Equal(t, coin.NewAmount(10), s.balance(escrow.CustodyAddress()))
	assert.Equal(t, []string{escrow.KindDeposit}, s.events.Kinds())
	assert.Equal(t, escrow.Pending, s.entry(commitment).Status)
}
