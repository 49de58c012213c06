package weavetest

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/iov-one/quickex"
)

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) quickex.Address {
	t.Helper()

	addr, err := quickex.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// RandomAddr returns a valid random address genearted on the fly.
func RandomAddr(t testing.TB) quickex.Address {
	t.Helper()
	raw := make([]byte, quickex.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := quickex.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not a valid address: %s", err)
	}
	return a
}

// BlockInfo returns a block information for the "test-chain" chain at given
// height and time.
func BlockInfo(t testing.TB, height int64, now time.Time) quickex.BlockInfo {
	t.Helper()
	info, err := quickex.NewBlockInfo(height, now, "test-chain", nil)
	if err != nil {
		t.Fatalf("cannot create block info: %s", err)
	}
	return info
}
