package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/app"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/orm"
	"github.com/iov-one/lockbox/store"
	"github.com/iov-one/lockbox/x/alloc"
	"github.com/iov-one/lockbox/x/asset"
	"github.com/stretchr/testify/require"
)

const (
	baseReserve = 10
	byteRate    = 1
	credits     = 10000
)

var (
	escrowReserve  = uint64(baseReserve + byteRate*EscrowSize)
	holdingReserve = uint64(baseReserve + byteRate*asset.HoldingSize)
)

// ledger is a single chain state with two assets, a maker funded in the
// deposit asset and a taker funded in the return asset.
type ledger struct {
	t      testing.TB
	db     store.CacheableKVStore
	auth   *lockboxtest.CtxAuth
	router *app.Router
	assets asset.BaseController
	allocs alloc.BaseController

	authority    lockbox.Address
	maker        lockbox.Address
	taker        lockbox.Address
	depositAsset lockbox.Address
	returnAsset  lockbox.Address
}

func newLedger(t testing.TB, makerFunds, takerFunds uint64) *ledger {
	t.Helper()
	db := store.MemStore()
	require.NoError(t, alloc.SaveConfig(db, alloc.Configuration{BaseReserve: baseReserve, ByteRate: byteRate}))
	allocs := alloc.NewController()
	assets := asset.NewController(allocs)

	l := &ledger{
		t:         t,
		db:        db,
		auth:      &lockboxtest.CtxAuth{Key: "auth"},
		router:    app.NewRouter(),
		assets:    assets,
		allocs:    allocs,
		authority: lockboxtest.NewAddress(),
		maker:     lockboxtest.NewAddress(),
		taker:     lockboxtest.NewAddress(),
	}
	for _, a := range []lockbox.Address{l.authority, l.maker, l.taker} {
		require.NoError(t, allocs.Credit(db, a, credits))
	}
	var err error
	l.depositAsset, err = assets.CreateAsset(db, l.authority, l.authority, 1, 6)
	require.NoError(t, err)
	l.returnAsset, err = assets.CreateAsset(db, l.authority, l.authority, 2, 6)
	require.NoError(t, err)

	l.fund(l.maker, l.depositAsset, makerFunds)
	l.fund(l.taker, l.returnAsset, takerFunds)

	RegisterRoutes(l.router, l.auth, assets, allocs)
	return l
}

func (l *ledger) fund(owner, assetID lockbox.Address, amount uint64) {
	l.t.Helper()
	addr, _, err := l.assets.EnsureHolding(l.db, owner, owner, assetID)
	require.NoError(l.t, err)
	if amount == 0 {
		return
	}
	auth := &lockboxtest.Auth{Signer: l.authority}
	require.NoError(l.t, l.assets.Mint(context.Background(), l.db, auth, addr, amount))
}

// deliver runs check and deliver of msg signed by signer at given tick.
// State is written only if both succeed.
func (l *ledger) deliver(tick lockbox.Tick, signer lockbox.Address, msg lockbox.Msg) (*lockbox.DeliverResult, error) {
	info := lockboxtest.BlockAt(tick)
	ctx := l.auth.SetAddresses(context.Background(), signer)
	tx := &lockboxtest.Tx{Msg: msg}
	if _, err := l.router.Check(ctx, info, l.db.CacheWrap(), tx); err != nil {
		return nil, err
	}
	cache := l.db.CacheWrap()
	res, err := l.router.Deliver(ctx, info, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	require.NoError(l.t, cache.Write())
	return res, nil
}

// snapshot returns every key value pair of the ledger.
func (l *ledger) snapshot() []lockbox.Model {
	l.t.Helper()
	itr, err := l.db.Iterator(nil, nil)
	require.NoError(l.t, err)
	all, err := orm.ConsumeIterator(itr)
	require.NoError(l.t, err)
	return all
}

func (l *ledger) holding(owner, assetID lockbox.Address) lockbox.Address {
	l.t.Helper()
	addr, err := asset.HoldingAddress(owner, assetID)
	require.NoError(l.t, err)
	return addr
}

// amount returns the balance of the holding, or zero if it does not exist.
func (l *ledger) amount(owner, assetID lockbox.Address) uint64 {
	l.t.Helper()
	h, err := l.assets.Holding(l.db, l.holding(owner, assetID))
	if err != nil {
		return 0
	}
	return h.Amount
}

func (l *ledger) credits(addr lockbox.Address) uint64 {
	l.t.Helper()
	n, err := l.allocs.Balance(l.db, addr)
	require.NoError(l.t, err)
	return n
}

func (l *ledger) escrowAddr(seed uint64) lockbox.Address {
	l.t.Helper()
	addr, _, err := EscrowAddress(l.maker, seed)
	require.NoError(l.t, err)
	return addr
}

func (l *ledger) vaultAddr(seed uint64) lockbox.Address {
	l.t.Helper()
	addr, err := VaultAddress(l.escrowAddr(seed), l.depositAsset)
	require.NoError(l.t, err)
	return addr
}

func (l *ledger) makeMsg(seed, deposit, receive, lock uint64) *MakeMsg {
	return &MakeMsg{
		Maker:               l.maker,
		DepositAsset:        l.depositAsset,
		ReturnAsset:         l.returnAsset,
		MakerDepositHolding: l.holding(l.maker, l.depositAsset),
		Escrow:              l.escrowAddr(seed),
		Vault:               l.vaultAddr(seed),
		AssetRegistry:       asset.RegistryID,
		AssetTransfer:       asset.TransferID,
		Allocation:          alloc.ProgramID,
		DepositAmount:       deposit,
		Seed:                seed,
		ReceiveAmount:       receive,
		LockPeriod:          lock,
	}
}

func (l *ledger) takeMsg(seed uint64) *TakeMsg {
	return &TakeMsg{
		Taker:               l.taker,
		Maker:               l.maker,
		DepositAsset:        l.depositAsset,
		ReturnAsset:         l.returnAsset,
		TakerDepositHolding: l.holding(l.taker, l.depositAsset),
		TakerReturnHolding:  l.holding(l.taker, l.returnAsset),
		MakerReturnHolding:  l.holding(l.maker, l.returnAsset),
		Escrow:              l.escrowAddr(seed),
		Vault:               l.vaultAddr(seed),
		AssetRegistry:       asset.RegistryID,
		AssetTransfer:       asset.TransferID,
		Allocation:          alloc.ProgramID,
	}
}

func (l *ledger) refundMsg(seed uint64) *RefundMsg {
	return &RefundMsg{
		Maker:               l.maker,
		DepositAsset:        l.depositAsset,
		MakerDepositHolding: l.holding(l.maker, l.depositAsset),
		Escrow:              l.escrowAddr(seed),
		Vault:               l.vaultAddr(seed),
		AssetTransfer:       asset.TransferID,
		Allocation:          alloc.ProgramID,
	}
}
