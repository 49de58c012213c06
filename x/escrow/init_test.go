package escrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/store"
	"github.com/iov-one/quickex/weavetest"
	"github.com/iov-one/quickex/weavetest/assert"
)

func TestGenesis(t *testing.T) {
	admin := weavetest.RandomAddr(t)
	genesis := `{
		"conf": {
			"escrow": {
				"metadata": {"schema": 1},
				"owner": "` + admin.String() + `",
				"privacy_enabled": true,
				"withdraw_enabled": false
			}
		}
	}`
	var opts quickex.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	conf, err := LoadConfiguration(db)
	assert.Nil(t, err)
	assert.Equal(t, admin, conf.Owner)

	deposits, err := ConfigGates{}.IsDepositEnabled(db)
	assert.Nil(t, err)
	assert.Equal(t, true, deposits)
	withdrawals, err := ConfigGates{}.IsWithdrawEnabled(db)
	assert.Nil(t, err)
	assert.Equal(t, false, withdrawals)
}

func TestGenesisWithoutConfiguration(t *testing.T) {
	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(quickex.Options{}, db))

	_, err := LoadConfiguration(db)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestGenesisInvalidConfiguration(t *testing.T) {
	const genesis = `{"conf": {"escrow": {"metadata": {"schema": 1}}}}`
	var opts quickex.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))
	assert.IsErr(t, errors.ErrInput, Initializer{}.FromGenesis(opts, store.MemStore()))
}
