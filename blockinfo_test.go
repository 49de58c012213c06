package quickex_test

import (
	"os"
	"testing"
	"time"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestBlockInfo(t *testing.T) {
	blocktime, err := time.Parse(time.RFC3339, "2019-03-15T14:56:00Z")
	assert.Nil(t, err)
	unixtime := quickex.AsUnixTime(blocktime)

	newLogger := log.NewTMLogger(os.Stdout)

	cases := map[string]struct {
		chainID      string
		height       int64
		logger       log.Logger
		err          *errors.Error
		expectLogger log.Logger
	}{
		"default logger": {
			chainID:      "test-chain",
			height:       123,
			expectLogger: quickex.DefaultLogger,
		},
		"custom logger": {
			chainID:      "test-chain",
			height:       123,
			logger:       newLogger,
			expectLogger: newLogger,
		},
		"bad chain id": {
			chainID: "invalid;;chars",
			height:  123,
			err:     errors.ErrInput,
		},
		"negative height": {
			chainID: "test-chain",
			height:  -1,
			err:     errors.ErrInput,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			bi, err := quickex.NewBlockInfo(tc.height, blocktime, tc.chainID, tc.logger)
			if tc.err != nil {
				if !tc.err.Is(err) {
					t.Fatalf("Unexpected error: %+v", err)
				}
				return
			}

			assert.Nil(t, err)
			assert.Equal(t, tc.expectLogger, bi.Logger())
			assert.Equal(t, int64(123), bi.Height())
			assert.Equal(t, "test-chain", bi.ChainID())
			assert.Equal(t, blocktime, bi.BlockTime())
			assert.Equal(t, unixtime, bi.UnixTime())
		})
	}
}
