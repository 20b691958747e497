package escrow

import (
	"crypto/sha256"
	"math"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/x/alloc"
	"github.com/iov-one/lockbox/x/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscrowLayout(t *testing.T) {
	e := Escrow{
		Seed:          0x0102030405060708,
		Maker:         lockboxtest.NewAddress(),
		DepositAsset:  lockboxtest.NewAddress(),
		ReturnAsset:   lockboxtest.NewAddress(),
		ReceiveAmount: 10,
		LockPeriod:    20,
		StartTime:     30,
		Bump:          254,
	}
	require.NoError(t, e.Validate())

	raw, err := e.Marshal()
	require.NoError(t, err)
	require.Len(t, raw, 137)

	disc := sha256.Sum256([]byte("account:Escrow"))
	assert.Equal(t, disc[:8], raw[:8])
	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, raw[8:16])
	assert.Equal(t, []byte(e.Maker), raw[16:48])
	assert.Equal(t, []byte(e.ReturnAsset), raw[80:112])
	assert.Equal(t, byte(10), raw[112])
	assert.Equal(t, byte(20), raw[120])
	assert.Equal(t, byte(30), raw[128])
	assert.Equal(t, byte(254), raw[136])

	var loaded Escrow
	require.NoError(t, loaded.Unmarshal(raw))
	assert.Equal(t, e, loaded)

	assert.True(t, errors.ErrInvalidState.Is(loaded.Unmarshal(raw[:136])))
	bad := append([]byte(nil), raw...)
	bad[0] ^= 0xff
	assert.True(t, errors.ErrInvalidType.Is(loaded.Unmarshal(bad)))
}

func TestEscrowValidate(t *testing.T) {
	a, b := lockboxtest.NewAddress(), lockboxtest.NewAddress()
	cases := map[string]Escrow{
		"missing maker": {DepositAsset: a, ReturnAsset: b, ReceiveAmount: 1},
		"same assets":   {Maker: a, DepositAsset: b, ReturnAsset: b, ReceiveAmount: 1},
		"zero receive":  {Maker: a, DepositAsset: a, ReturnAsset: b},
	}
	for name, e := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, e.Validate())
		})
	}
}

func TestEscrowUnlockTick(t *testing.T) {
	cases := map[string]struct {
		start lockbox.Tick
		lock  uint64
		want  lockbox.Tick
	}{
		"no lock":           {start: 100, lock: 0, want: 100},
		"regular lock":      {start: 100, lock: 10, want: 110},
		"exactly last tick": {start: 100, lock: math.MaxUint64 - 100, want: math.MaxUint64},
		"past last tick":    {start: 101, lock: math.MaxUint64, want: math.MaxUint64},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := Escrow{StartTime: tc.start, LockPeriod: tc.lock}
			assert.Equal(t, tc.want, e.UnlockTick())
		})
	}
}

func TestEscrowAddress(t *testing.T) {
	maker := lockboxtest.NewAddress()

	addr, bump, err := EscrowAddress(maker, 42)
	require.NoError(t, err)
	again, bump2, err := EscrowAddress(maker, 42)
	require.NoError(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, bump2)

	other, _, err := EscrowAddress(maker, 43)
	require.NoError(t, err)
	assert.NotEqual(t, addr, other)
	other, _, err = EscrowAddress(lockboxtest.NewAddress(), 42)
	require.NoError(t, err)
	assert.NotEqual(t, addr, other)

	got, err := lockbox.CreateDerivedAddress(ProgramID, bump, escrowSeeds(maker, 42)...)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	depositAsset := lockboxtest.NewAddress()
	vault, err := VaultAddress(addr, depositAsset)
	require.NoError(t, err)
	holding, err := asset.HoldingAddress(addr, depositAsset)
	require.NoError(t, err)
	assert.Equal(t, holding, vault)
}

func TestMsgEncoding(t *testing.T) {
	addr := func() lockbox.Address { return lockboxtest.NewAddress() }
	msgs := []lockbox.Msg{
		&MakeMsg{
			Maker: addr(), DepositAsset: addr(), ReturnAsset: addr(),
			MakerDepositHolding: addr(), Escrow: addr(), Vault: addr(),
			AssetRegistry: asset.RegistryID, AssetTransfer: asset.TransferID, Allocation: alloc.ProgramID,
			DepositAmount: 10, Seed: 123, ReceiveAmount: 10, LockPeriod: 10,
		},
		&TakeMsg{
			Taker: addr(), Maker: addr(), DepositAsset: addr(), ReturnAsset: addr(),
			TakerDepositHolding: addr(), TakerReturnHolding: addr(), MakerReturnHolding: addr(),
			Escrow: addr(), Vault: addr(),
			AssetRegistry: asset.RegistryID, AssetTransfer: asset.TransferID, Allocation: alloc.ProgramID,
		},
		&RefundMsg{
			Maker: addr(), DepositAsset: addr(), MakerDepositHolding: addr(),
			Escrow: addr(), Vault: addr(), AssetTransfer: asset.TransferID, Allocation: alloc.ProgramID,
		},
	}
	fresh := map[string]func() lockbox.Msg{
		pathMakeMsg:   func() lockbox.Msg { return &MakeMsg{} },
		pathTakeMsg:   func() lockbox.Msg { return &TakeMsg{} },
		pathRefundMsg: func() lockbox.Msg { return &RefundMsg{} },
	}

	for _, msg := range msgs {
		t.Run(msg.Path(), func(t *testing.T) {
			require.NoError(t, msg.Validate())
			raw, err := msg.Marshal()
			require.NoError(t, err)

			loaded := fresh[msg.Path()]()
			require.NoError(t, loaded.Unmarshal(raw))
			assert.Equal(t, msg, loaded)

			assert.Error(t, fresh[msg.Path()]().Unmarshal(append(raw, 0)))
			assert.Error(t, fresh[msg.Path()]().Unmarshal(raw[:len(raw)-1]))
		})
	}
}

func TestMakeMsgArguments(t *testing.T) {
	m := MakeMsg{DepositAmount: 1, Seed: 2, ReceiveAmount: 3, LockPeriod: 4}
	for _, a := range []*lockbox.Address{&m.Maker, &m.DepositAsset, &m.ReturnAsset, &m.MakerDepositHolding, &m.Escrow, &m.Vault, &m.AssetRegistry, &m.AssetTransfer, &m.Allocation} {
		*a = lockboxtest.NewAddress()
	}
	raw, err := m.Marshal()
	require.NoError(t, err)
	// nine length prefixed accounts followed by four little endian words
	words := raw[9*(1+lockbox.AddressLength):]
	require.Len(t, words, 32)
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, words[:8])
	assert.Equal(t, []byte{4, 0, 0, 0, 0, 0, 0, 0}, words[24:])
}
