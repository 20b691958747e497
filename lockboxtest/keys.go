package lockboxtest

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
	"github.com/stellar/go/exp/crypto/derivation"
)

// NewKey returns a new random ed25519 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewAddress returns the identity of a new random key.
func NewAddress() lockbox.Address {
	return NewKey().PublicKey().Address()
}

// RandomAddr returns a random 32 byte address that is not bound to any key.
func RandomAddr(t testing.TB) lockbox.Address {
	t.Helper()
	addr := make(lockbox.Address, lockbox.AddressLength)
	if _, err := rand.Read(addr); err != nil {
		t.Fatalf("cannot read random: %s", err)
	}
	return addr
}

// testSeed is the master seed all deterministic test keys are derived from.
var testSeed = []byte("lockbox deterministic test keys, never use on a real network")

// DerivedKey returns the n-th key of a deterministic hierarchy, so tests
// can rely on stable identities across runs.
func DerivedKey(t testing.TB, n uint32) *crypto.PrivateKey {
	t.Helper()
	path := fmt.Sprintf("m/44'/234'/%d'", n)
	key, err := derivation.DeriveForPath(path, testSeed)
	if err != nil {
		t.Fatalf("cannot derive key %d: %s", n, err)
	}
	return crypto.PrivKeyEd25519FromSeed(key.Key)
}
