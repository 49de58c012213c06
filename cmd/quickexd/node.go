package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/app"
	quickexd "github.com/iov-one/quickex/cmd/quickexd/app"
	"github.com/iov-one/quickex/crypto"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/eventlog"
	"github.com/iov-one/quickex/store/iavl"
	"github.com/iov-one/quickex/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

// node is a running instance of the application. It must be closed after
// use.
type node struct {
	engine  *app.Engine
	kv      *iavl.CommitStore
	journal *eventlog.Journal
	logger  log.Logger
}

func newLogger(level string) (log.Logger, error) {
	if level == "none" {
		return log.NewNopLogger(), nil
	}
	allow, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stderr)), allow), nil
}

func openNode(opts *RootOptions) (*node, error) {
	conf, err := LoadConfig(opts.Home)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		conf.LogLevel = opts.LogLevel
	}
	logger, err := newLogger(conf.LogLevel)
	if err != nil {
		return nil, err
	}

	sinks := eventlog.MultiSink{eventlog.NewLogSink(logger)}
	var journal *eventlog.Journal
	if conf.Journal != "" {
		path := resolve(opts.Home, conf.Journal)
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, errors.Wrap(err, "create journal directory")
		}
		journal, err = eventlog.OpenJournal(path)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, journal)
	}

	dbPath := resolve(opts.Home, conf.DB)
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
			return nil, errors.Wrap(err, "create database directory")
		}
	}
	engine, kv, err := quickexd.Application(dbPath, sinks, logger)
	if err != nil {
		if journal != nil {
			journal.Close()
		}
		return nil, err
	}
	return &node{engine: engine, kv: kv, journal: journal, logger: logger}, nil
}

func (n *node) Close() {
	n.kv.Close()
	if n.journal != nil {
		n.journal.Close()
	}
}

// submit builds a transaction for msg, signs it with all given keys using
// their current sequence and delivers it.
func (n *node) submit(ctx context.Context, msg quickex.Msg, signers ...*crypto.PrivateKey) (*quickex.DeliverResult, error) {
	tx, err := app.NewTx(msg)
	if err != nil {
		return nil, err
	}
	for _, key := range signers {
		var seq int64
		err := n.engine.Read(func(db quickex.ReadOnlyKVStore) error {
			var err error
			seq, err = sigs.NextNonce(db, key.PublicKey().Address())
			return err
		})
		if err != nil {
			return nil, errors.Wrap(err, "sequence")
		}
		if err := tx.Sign(key, n.engine.ChainID(), seq); err != nil {
			return nil, errors.Wrap(err, "sign")
		}
	}
	return n.engine.Deliver(ctx, tx)
}
