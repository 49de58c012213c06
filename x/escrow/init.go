package escrow

import (
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/gconf"
)

// Initializer loads the escrow configuration from the genesis file.
type Initializer struct{}

var _ quickex.Initializer = Initializer{}

// FromGenesis stores the "conf.escrow" configuration. A genesis without it
// is accepted: both gates stay closed and there is no administrator.
func (Initializer) FromGenesis(opts quickex.Options, db quickex.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, packageName, &conf)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
