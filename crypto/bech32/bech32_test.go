package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/lockbox/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBech32EncodeDecode(t *testing.T) {
	// bech32  -e -h tiov 746573742d7061796c6f6164
	const enc = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`

	want, err := hex.DecodeString("746573742d7061796c6f6164")
	require.NoError(t, err)

	hrp, payload, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "tiov", hrp)
	assert.Equal(t, want, payload)

	raw, err := Encode(hrp, payload)
	require.NoError(t, err)
	assert.Equal(t, enc, string(raw))
}

func TestBech32AddressRoundTrip(t *testing.T) {
	addr := bytes.Repeat([]byte{0xAB}, 32)

	raw, err := Encode("lbx", addr)
	require.NoError(t, err)

	got, err := DecodeWithPrefix(string(raw), "lbx")
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	_, err = DecodeWithPrefix(string(raw), "tiov")
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestBech32DecodeGarbage(t *testing.T) {
	_, _, err := Decode("not a bech32 string")
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
