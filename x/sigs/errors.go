package sigs

import (
	"github.com/iov-one/quickex/errors"
)

// ErrInvalidSequence is returned when a signature sequence does not match
// the signer's stored sequence. This protects against replays.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
