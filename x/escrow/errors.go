package escrow

import (
	"github.com/iov-one/quickex/errors"
)

// ErrInvalidAmount is returned for a non positive escrow amount.
var ErrInvalidAmount = errors.ErrAmount

var (
	ErrDuplicateCommitment = errors.Register(1020, "duplicate commitment")
	ErrEntryNotFound       = errors.Register(1021, "escrow entry not found")
	ErrAlreadySpent        = errors.Register(1022, "escrow entry already spent")
	ErrRevealMismatch      = errors.Register(1023, "reveal does not match escrow entry")
	ErrGateDisabled        = errors.Register(1024, "gate disabled")
	ErrTransferFailed      = errors.Register(1025, "transfer failed")
)
