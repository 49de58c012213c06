package quickex

import (
	"regexp"
	"time"

	"github.com/iov-one/quickex/errors"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// BlockInfo is passed down the Decorator/Handler stack and carries the host
// provided execution environment of a single call: the height and time of the
// block being built, the chain it belongs to and a logger.
//
// For custom info that is only to be consumed within a particular
// module, or timeouts, etc, make use of context.Context. Please do not store
// info in there that is required for other code to work.
type BlockInfo struct {
	height  int64
	time    time.Time
	chainID string
	logger  log.Logger
}

// NewBlockInfo creates a BlockInfo struct with current context of where it is being executed
func NewBlockInfo(height int64, blockTime time.Time, chainID string, logger log.Logger) (BlockInfo, error) {
	if !IsValidChainID(chainID) {
		return BlockInfo{}, errors.Wrap(errors.ErrInput, "chainID invalid")
	}
	if height < 0 {
		return BlockInfo{}, errors.Wrap(errors.ErrInput, "negative height")
	}
	if logger == nil {
		logger = DefaultLogger
	}
	return BlockInfo{
		height:  height,
		time:    blockTime.UTC(),
		chainID: chainID,
		logger:  logger,
	}, nil
}

func (b BlockInfo) ChainID() string {
	return b.chainID
}

func (b BlockInfo) Height() int64 {
	return b.height
}

func (b BlockInfo) BlockTime() time.Time {
	return b.time
}

// UnixTime is the host clock. All timestamps recorded by the handlers come
// from here.
func (b BlockInfo) UnixTime() UnixTime {
	return AsUnixTime(b.time)
}

func (b BlockInfo) Logger() log.Logger {
	if b.logger == nil {
		return DefaultLogger
	}
	return b.logger
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func (b BlockInfo) WithLogInfo(keyvals ...interface{}) BlockInfo {
	b.logger = b.Logger().With(keyvals...)
	return b
}
