package lockbox

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/lockbox/errors"
)

const (
	// MaxSeeds is the maximum number of seeds a derived address may use.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

// derivedMarker is mixed into every derived address hash so that it can never
// collide with a hash computed for any other purpose.
var derivedMarker = []byte("lockbox/derived")

// DeriveAddress finds the derived address for the given program and seeds.
//
// Bump values are tried from 255 down to 0 and the first digest that is not a
// valid ed25519 point is returned, together with the bump that produced it.
// Such an address has no private key, so only the program that owns the
// derivation can act on its behalf. The result depends on nothing but the
// arguments.
func DeriveAddress(program Address, seeds ...[]byte) (Address, uint8, error) {
	if err := validateSeeds(program, seeds); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		addr := hashDerived(program, uint8(bump), seeds)
		if !onCurve(addr) {
			return addr, uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrInvalidState, "no viable bump")
}

// CreateDerivedAddress recomputes a derived address from a known bump,
// without searching. It fails if the resulting digest is a curve point.
func CreateDerivedAddress(program Address, bump uint8, seeds ...[]byte) (Address, error) {
	if err := validateSeeds(program, seeds); err != nil {
		return nil, err
	}
	addr := hashDerived(program, bump, seeds)
	if onCurve(addr) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "bump %d derives a curve point", bump)
	}
	return addr, nil
}

// VerifyDerivedAddress re-derives the address for given program and seeds and
// compares it with the one provided by the caller.
func VerifyDerivedAddress(got Address, program Address, seeds ...[]byte) (uint8, error) {
	want, bump, err := DeriveAddress(program, seeds...)
	if err != nil {
		return 0, err
	}
	if !want.Equals(got) {
		return 0, errors.Wrapf(errors.ErrAddressMismatch, "want %s, got %s", want, got)
	}
	return bump, nil
}

func validateSeeds(program Address, seeds [][]byte) error {
	if err := program.Validate(); err != nil {
		return errors.Wrap(err, "program")
	}
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInvalidInput, "at most %d seeds allowed", MaxSeeds)
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInvalidInput, "seed %d longer than %d bytes", i, MaxSeedLength)
		}
	}
	return nil
}

func hashDerived(program Address, bump uint8, seeds [][]byte) Address {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write(program)
	h.Write(derivedMarker)
	return h.Sum(nil)
}

// onCurve returns true if given bytes are a valid compressed ed25519 point,
// meaning that a private key could exist for them.
func onCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
