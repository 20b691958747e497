package asset

import (
	"context"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/app"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers(t *testing.T) {
	authority := lockboxtest.NewAddress()
	alice := lockboxtest.NewAddress()
	bob := lockboxtest.NewAddress()
	db, ctrl, _ := setupController(t, authority, alice, bob)
	info := lockboxtest.BlockAt(3)
	auth := &lockboxtest.CtxAuth{Key: "auth"}

	rt := app.NewRouter()
	RegisterRoutes(rt, auth, ctrl)

	deliver := func(signer lockbox.Address, msg lockbox.Msg) (*lockbox.DeliverResult, error) {
		ctx := auth.SetAddresses(context.Background(), signer)
		tx := &lockboxtest.Tx{Msg: msg}
		if _, err := rt.Check(ctx, info, db.CacheWrap(), tx); err != nil {
			return nil, err
		}
		return rt.Deliver(ctx, info, db, tx)
	}

	res, err := deliver(authority, &CreateAssetMsg{Payer: authority, Authority: authority, Seed: 9, Decimals: 2})
	require.NoError(t, err)
	assetAddr := lockbox.Address(res.Data)

	_, err = deliver(alice, &CreateHoldingMsg{Payer: bob, Owner: alice, Asset: assetAddr})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	res, err = deliver(alice, &CreateHoldingMsg{Payer: alice, Owner: alice, Asset: assetAddr})
	require.NoError(t, err)
	aliceH := lockbox.Address(res.Data)

	_, err = deliver(alice, &CreateHoldingMsg{Payer: alice, Owner: alice, Asset: assetAddr})
	assert.True(t, errors.ErrDuplicate.Is(err))

	res, err = deliver(alice, &CreateHoldingMsg{Payer: alice, Owner: bob, Asset: assetAddr})
	require.NoError(t, err)
	bobH := lockbox.Address(res.Data)

	_, err = deliver(alice, &MintMsg{Holding: aliceH, Amount: 50})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = deliver(authority, &MintMsg{Holding: aliceH, Amount: 50})
	require.NoError(t, err)

	_, err = deliver(bob, &TransferMsg{Src: aliceH, Dest: bobH, Amount: 5})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = deliver(alice, &TransferMsg{Src: aliceH, Dest: bobH, Amount: 5})
	require.NoError(t, err)
	assertAmount(t, ctrl, db, aliceH, 45)
	assertAmount(t, ctrl, db, bobH, 5)

	_, err = deliver(bob, &CloseHoldingMsg{Holding: bobH, Dest: bob})
	assert.True(t, errors.ErrInvalidState.Is(err))
	_, err = deliver(bob, &TransferMsg{Src: bobH, Dest: aliceH, Amount: 5})
	require.NoError(t, err)
	_, err = deliver(bob, &CloseHoldingMsg{Holding: bobH, Dest: bob})
	require.NoError(t, err)

	_, err = deliver(alice, &MintMsg{Holding: aliceH})
	assert.True(t, errors.ErrInvalidMsg.Is(err))
}

func TestMsgEncoding(t *testing.T) {
	msg := TransferMsg{
		Src:    lockboxtest.RandomAddr(t),
		Dest:   lockboxtest.RandomAddr(t),
		Amount: 77,
	}
	raw, err := msg.Marshal()
	require.NoError(t, err)
	// two length prefixed accounts followed by one word
	assert.Len(t, raw, 2*(1+lockbox.AddressLength)+8)

	var got TransferMsg
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, msg, got)

	err = got.Unmarshal(append(raw, 0))
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
