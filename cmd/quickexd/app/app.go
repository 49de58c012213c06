/*
Package app links together all the various components
to construct the quickexd application.
*/
package app

import (
	"path/filepath"
	"strings"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/app"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/store/iavl"
	"github.com/iov-one/quickex/x"
	"github.com/iov-one/quickex/x/cash"
	"github.com/iov-one/quickex/x/escrow"
	"github.com/iov-one/quickex/x/sigs"
	"github.com/iov-one/quickex/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the authentication used by all extensions. Only
// public key signatures are supported.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		// withdrawals are authorized by the preimage, not by a signature
		sigs.NewDecorator().AllowMissingSigs(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router with all message handlers registered.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, bank)
	sigs.RegisterRoutes(r, authFn)
	escrow.RegisterRoutes(r, authFn, bank)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into Engine.
func Stack() quickex.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializers returns the genesis initializer of all extensions.
func Initializers() quickex.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		escrow.Initializer{},
	)
}

// Application returns an engine using the store at given path. An empty
// path means an in memory store.
func Application(dbPath string, sink quickex.EventSink, logger log.Logger) (*app.Engine, *iavl.CommitStore, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, nil, err
	}
	engine, err := app.NewEngine(kv, Stack(), sink, logger)
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	return engine, kv, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (*iavl.CommitStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name %q", dbPath)
	}
	// Some callers add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
