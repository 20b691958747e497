package sigs

import (
	"testing"

	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBytes(t *testing.T) {
	bz := []byte("foobar")
	tx := newStdTx(bz)

	bz2 := []byte("blast")
	tx2 := newStdTx(bz2)

	tbz, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, bz, tbz)
	tbz2, err := tx2.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, bz2, tbz2)

	chainID := "test-sign-bytes"
	c1, err := BuildSignBytesTx(tx, chainID, 17)
	require.NoError(t, err)
	c1a, err := BuildSignBytes(bz, chainID, 17)
	require.NoError(t, err)
	assert.Equal(t, c1, c1a)
	assert.Len(t, c1, 64)

	// sign bytes change on tx, chain_id and seq
	ct, err := BuildSignBytes(bz2, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, ct)
	c2, err := BuildSignBytes(bz, chainID+"2", 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	c3, err := BuildSignBytes(bz, chainID, 18)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	_, err = BuildSignBytes(bz, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(bz, "no", 1)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := lockboxtest.NewKey()
	addr := priv.PublicKey().Address()

	chainID := "emo-music-2345"
	bz := []byte("my special valentine")
	tx := newStdTx(bz)

	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig2, err := SignTx(priv, tx, chainID, 2)
	require.NoError(t, err)
	sig13, err := SignTx(priv, tx, chainID, 13)
	require.NoError(t, err)
	empty := new(StdSignature)

	// signing should be deterministic
	sig2a, err := SignTx(priv, tx, chainID, 2)
	require.NoError(t, err)
	assert.Equal(t, sig2, sig2a)

	// the first one must have sequence zero
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	_, err = VerifySignature(kv, empty, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// wrong chain
	_, err = VerifySignature(kv, sig0, bz, chainID+"x")
	assert.True(t, errors.ErrUnauthorized.Is(err))

	signer, err := VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, addr, signer)

	// replay is rejected
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = VerifySignature(kv, sig13, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// signature over other bytes
	_, err = VerifySignature(kv, sig1, []byte("other"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	signer, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, addr, signer)

	seq, err := NextNonce(kv, addr)
	require.NoError(t, err)
	assert.EqualValues(t, 2, seq)

	signer, err = VerifySignature(kv, sig2, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, addr, signer)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	priv := lockboxtest.NewKey()
	priv2 := lockboxtest.NewKey()
	addr := priv.PublicKey().Address()
	addr2 := priv2.PublicKey().Address()

	chainID := "hot_summer_days"
	tx := newStdTx([]byte("hot stuff"))
	tx2 := newStdTx([]byte("ice cold"))

	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig2, err := SignTx(priv2, tx, chainID, 0)
	require.NoError(t, err)
	sig3, err := SignTx(priv, tx2, chainID, 1)
	require.NoError(t, err)

	// no signers
	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	tx.Signatures = []*StdSignature{sig, sig2}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, addr, signers[0])
	assert.Equal(t, addr2, signers[1])

	// first signature was made for a different payload
	tx2.Signatures = []*StdSignature{sig2, sig3}
	_, err = VerifyTxSignatures(kv, tx2, chainID)
	assert.Error(t, err)

	tx2.Signatures = []*StdSignature{sig3}
	signers, err = VerifyTxSignatures(kv, tx2, chainID)
	require.NoError(t, err)
	assert.Len(t, signers, 1)
}

func TestUserDataSequence(t *testing.T) {
	pub := lockboxtest.NewKey().PublicKey()

	user := &UserData{Pubkey: pub}
	require.NoError(t, user.CheckAndIncrementSequence(0))
	assert.True(t, ErrInvalidSequence.Is(user.CheckAndIncrementSequence(0)))
	require.NoError(t, user.CheckAndIncrementSequence(1))

	user.Sequence = maxSequenceValue
	assert.True(t, errors.ErrOverflow.Is(user.CheckAndIncrementSequence(maxSequenceValue)))

	raw, err := (&UserData{Pubkey: pub, Sequence: 7}).Marshal()
	require.NoError(t, err)
	var loaded UserData
	require.NoError(t, loaded.Unmarshal(raw))
	assert.EqualValues(t, 7, loaded.Sequence)
	assert.True(t, pub.Equals(loaded.Pubkey))

	assert.Error(t, loaded.Unmarshal(append(raw, 0)))
}
