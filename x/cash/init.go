package cash

import (
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use quickex.Address, so address in hex, not base64
type GenesisAccount struct {
	Address quickex.Address `json:"address"`
	Coins   []coin.Coin     `json:"coins"`
}

// Initializer fulfils the InitStater interface to load data from
// the genesis file
type Initializer struct{}

var _ quickex.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts quickex.Options, kv quickex.KVStore) error {
	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	control := NewController(NewBucket())
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if c.Amount.IsNegative() {
				return errors.Wrapf(errors.ErrAmount, "account %d: negative %s", i, c)
			}
			if err := control.IssueCoins(kv, acct.Address, c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
