package vaulttest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/iov-one/vault"
)

var addressSeq uint64

// NewAddress returns a new, unique and valid address. Each call returns a
// different value so that tests can mint as many identities as needed.
func NewAddress() vault.Address {
	n := atomic.AddUint64(&addressSeq, 1)
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, n)
	return vault.NewAddress(append([]byte("vaulttest/"), raw...))
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation. This function is a test helper that is using
// vault.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) vault.Address {
	t.Helper()

	addr, err := vault.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// SequenceID returns an encoded sequence value as used by the orm package.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
