package weavetest

import (
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/crypto"
)

// NewKey returns a freshly generated ed25519 private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a random key.
func NewCondition() quickex.Condition {
	return NewKey().PublicKey().Condition()
}
