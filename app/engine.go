package app

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Engine executes transactions one at a time against a committing store.
// Every delivered transaction is its own block: state changes are written
// and committed only if the handler succeeds, and events are published to
// the sink after the commit.
type Engine struct {
	mu      sync.Mutex
	store   quickex.CommitKVStore
	handler quickex.Handler
	sink    quickex.EventSink
	logger  log.Logger
	clock   func() time.Time

	chainID string
	height  int64
}

// NewEngine loads the latest version of the store and returns an engine
// ready to process transactions. Sink and logger are optional.
func NewEngine(store quickex.CommitKVStore, handler quickex.Handler, sink quickex.EventSink, logger log.Logger) (*Engine, error) {
	if logger == nil {
		logger = quickex.DefaultLogger
	}
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	id, err := store.LatestVersion()
	if err != nil {
		return nil, errors.Wrap(err, "latest version")
	}
	chainID, err := loadChainID(store)
	if err != nil {
		return nil, err
	}
	return &Engine{
		store:   store,
		handler: handler,
		sink:    sink,
		logger:  logger.With("module", "engine"),
		clock:   time.Now,
		chainID: chainID,
		height:  id.Version,
	}, nil
}

// WithClock sets the time source used for block time.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.mu.Lock()
	e.clock = now
	e.mu.Unlock()
	return e
}

// ChainID returns the chain id set at genesis or an empty string.
func (e *Engine) ChainID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chainID
}

// Height returns the last committed height.
func (e *Engine) Height() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.height
}

// InitChain stores the chain id, loads the genesis state using given
// initializer and commits the result. It can be called only once in the
// lifetime of a store.
func (e *Engine) InitChain(gen *Genesis, init quickex.Initializer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "chain %q already initialized", e.chainID)
	}

	cache := e.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if init != nil {
		if err := init.FromGenesis(gen.AppState, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "genesis")
		}
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	id, err := e.store.Commit()
	if err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	e.chainID = gen.ChainID
	e.height = id.Version
	e.logger.Info("chain initialized", "chain", e.chainID, "height", e.height)
	return nil
}

func (e *Engine) blockInfo(height int64) (quickex.BlockInfo, error) {
	if e.chainID == "" {
		return quickex.BlockInfo{}, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	return quickex.NewBlockInfo(height, e.clock(), e.chainID, e.logger)
}

// Check runs the transaction against a scratch copy of the state. Nothing
// is ever persisted.
func (e *Engine) Check(ctx context.Context, tx quickex.Tx) (*quickex.CheckResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := e.blockInfo(e.height + 1)
	if err != nil {
		return nil, err
	}
	cache := e.store.CacheWrap()
	defer cache.Discard()
	return e.handler.Check(ctx, info, cache, tx)
}

// Deliver executes the transaction in a new block. On success the state is
// committed and the produced events are published. A failing sink is only
// logged because the state change is already final.
func (e *Engine) Deliver(ctx context.Context, tx quickex.Tx) (*quickex.DeliverResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := e.blockInfo(e.height + 1)
	if err != nil {
		return nil, err
	}

	cache := e.store.CacheWrap()
	res, err := e.handler.Deliver(ctx, info, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write block")
	}
	id, err := e.store.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit block")
	}
	e.height = id.Version

	if e.sink != nil && len(res.Events) != 0 {
		if err := e.sink.Publish(ctx, res.Events); err != nil {
			e.logger.Error("cannot publish events", "height", e.height, "err", err)
		}
	}
	return res, nil
}

// Read gives fn a read only view of the last committed state. Any
// modification fn makes is discarded.
func (e *Engine) Read(fn func(db quickex.ReadOnlyKVStore) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	cache := e.store.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}
