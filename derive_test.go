package lockbox_test

import (
	"bytes"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAddress(t *testing.T) {
	program := lockbox.NewAddress([]byte("lockbox/test-program"))
	maker := lockboxtest.NewAddress()

	addr, bump, err := lockbox.DeriveAddress(program, []byte("escrow"), maker, []byte{1})
	require.NoError(t, err)
	require.NoError(t, addr.Validate())

	again, againBump, err := lockbox.DeriveAddress(program, []byte("escrow"), maker, []byte{1})
	require.NoError(t, err)
	assert.Equal(t, addr, again, "derivation must be deterministic")
	assert.Equal(t, bump, againBump)

	other, _, err := lockbox.DeriveAddress(program, []byte("escrow"), maker, []byte{2})
	require.NoError(t, err)
	assert.False(t, addr.Equals(other), "different seeds must derive different addresses")

	otherProgram, _, err := lockbox.DeriveAddress(lockbox.NewAddress([]byte("x")), []byte("escrow"), maker, []byte{1})
	require.NoError(t, err)
	assert.False(t, addr.Equals(otherProgram), "different programs must derive different addresses")

	created, err := lockbox.CreateDerivedAddress(program, bump, []byte("escrow"), maker, []byte{1})
	require.NoError(t, err)
	assert.Equal(t, addr, created)

	got, err := lockbox.VerifyDerivedAddress(addr, program, []byte("escrow"), maker, []byte{1})
	require.NoError(t, err)
	assert.Equal(t, bump, got)

	_, err = lockbox.VerifyDerivedAddress(other, program, []byte("escrow"), maker, []byte{1})
	assert.True(t, errors.ErrAddressMismatch.Is(err), "got %+v", err)
}

func TestDeriveAddressLimits(t *testing.T) {
	program := lockbox.NewAddress([]byte("lockbox/test-program"))

	cases := map[string]struct {
		program lockbox.Address
		seeds   [][]byte
		wantErr *errors.Error
	}{
		"no seeds": {
			program: program,
		},
		"max seed length": {
			program: program,
			seeds:   [][]byte{bytes.Repeat([]byte{1}, lockbox.MaxSeedLength)},
		},
		"seed too long": {
			program: program,
			seeds:   [][]byte{bytes.Repeat([]byte{1}, lockbox.MaxSeedLength+1)},
			wantErr: errors.ErrInvalidInput,
		},
		"too many seeds": {
			program: program,
			seeds:   make([][]byte, lockbox.MaxSeeds+1),
			wantErr: errors.ErrInvalidInput,
		},
		"invalid program": {
			program: lockbox.Address("short"),
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			addr, _, err := lockbox.DeriveAddress(tc.program, tc.seeds...)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, addr, lockbox.AddressLength)
		})
	}
}
