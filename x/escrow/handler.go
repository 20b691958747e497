package escrow

import (
	"context"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x"
	"github.com/iov-one/lockbox/x/alloc"
	"github.com/iov-one/lockbox/x/asset"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	makeEscrowCost   int64 = 300
	takeEscrowCost   int64 = 300
	refundEscrowCost int64 = 100
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r lockbox.Registry, auth x.Authenticator, assets asset.Controller, allocs alloc.Controller) {
	h := handler{
		auth:   auth,
		bucket: NewBucket(),
		assets: assets,
		allocs: allocs,
	}
	r.Handle(&MakeMsg{}, MakeEscrowHandler{h})
	r.Handle(&TakeMsg{}, TakeEscrowHandler{h})
	r.Handle(&RefundMsg{}, RefundEscrowHandler{h})
}

type handler struct {
	auth   x.Authenticator
	bucket Bucket
	assets asset.Controller
	allocs alloc.Controller
}

// checkServices ensures the service accounts passed by the caller are the
// ones this module talks to.
func checkServices(registry, transfer, allocation lockbox.Address) error {
	if registry != nil && !registry.Equals(asset.RegistryID) {
		return errors.Wrap(errors.ErrAddressMismatch, "asset registry")
	}
	if !transfer.Equals(asset.TransferID) {
		return errors.Wrap(errors.ErrAddressMismatch, "asset transfer")
	}
	if !allocation.Equals(alloc.ProgramID) {
		return errors.Wrap(errors.ErrAddressMismatch, "storage allocation")
	}
	return nil
}

func checkHolding(name string, got, owner, assetID lockbox.Address) error {
	want, err := asset.HoldingAddress(owner, assetID)
	if err != nil {
		return err
	}
	if !got.Equals(want) {
		return errors.Wrapf(errors.ErrAddressMismatch, "%s: expected %s", name, want)
	}
	return nil
}

// loadEscrow returns the record stored at addr after checking addr and
// vault are derived from its content.
func (h handler) loadEscrow(db lockbox.KVStore, addr, vault lockbox.Address) (*Escrow, error) {
	e, err := h.bucket.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "escrow")
	}
	want, err := lockbox.CreateDerivedAddress(ProgramID, e.Bump, escrowSeeds(e.Maker, e.Seed)...)
	if err != nil {
		return nil, err
	}
	if !addr.Equals(want) {
		return nil, errors.Wrap(errors.ErrAddressMismatch, "escrow")
	}
	if err := checkHolding("vault", vault, addr, e.DepositAsset); err != nil {
		return nil, err
	}
	return e, nil
}

// release empties the vault into dest and closes both the vault and the
// escrow record. Storage reserves go back to the maker.
func (h handler) release(ctx context.Context, db lockbox.KVStore, addr, vault lockbox.Address, e *Escrow, dest lockbox.Address) (uint64, error) {
	ctx = withEscrow(ctx, addr)
	auth := x.ChainAuth(h.auth, Authenticate{})

	held, err := h.assets.Holding(db, vault)
	if err != nil {
		return 0, assetError(err, "vault")
	}
	if held.Amount > 0 {
		if err := h.assets.Transfer(ctx, db, auth, vault, dest, held.Amount); err != nil {
			return 0, assetError(err, "release vault")
		}
	}
	if err := h.assets.CloseHolding(ctx, db, auth, vault, e.Maker); err != nil {
		return 0, assetError(err, "close vault")
	}
	if err := h.bucket.Delete(db, addr); err != nil {
		return 0, err
	}
	if err := h.allocs.Reclaim(db, addr, e.Maker); err != nil {
		return 0, errors.Wrap(err, "reclaim escrow")
	}
	return held.Amount, nil
}

// MakeEscrowHandler opens new deals.
type MakeEscrowHandler struct {
	handler
}

var _ lockbox.Handler = MakeEscrowHandler{}

func (h MakeEscrowHandler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: makeEscrowCost}, nil
}

func (h MakeEscrowHandler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, bump, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.allocs.Allocate(db, msg.Maker, msg.Escrow, EscrowSize); err != nil {
		return nil, errors.Wrap(err, "allocate escrow")
	}
	e := Escrow{
		Seed:          msg.Seed,
		Maker:         msg.Maker,
		DepositAsset:  msg.DepositAsset,
		ReturnAsset:   msg.ReturnAsset,
		ReceiveAmount: msg.ReceiveAmount,
		LockPeriod:    msg.LockPeriod,
		StartTime:     info.Now(),
		Bump:          bump,
	}
	if err := h.bucket.Create(db, msg.Escrow, &e); err != nil {
		return nil, err
	}

	_, vault, err := h.assets.EnsureHolding(db, msg.Maker, msg.Escrow, msg.DepositAsset)
	if err != nil {
		return nil, assetError(err, "create vault")
	}
	if vault.Amount != 0 {
		return nil, errors.Wrapf(errors.ErrInvalidState, "vault already holds %d", vault.Amount)
	}
	if err := h.assets.Transfer(ctx, db, h.auth, msg.MakerDepositHolding, msg.Vault, msg.DepositAmount); err != nil {
		return nil, assetError(err, "deposit")
	}

	info.Logger().Info("escrow made",
		"escrow", msg.Escrow, "maker", msg.Maker, "deposit", msg.DepositAmount,
		"receive", msg.ReceiveAmount, "unlock", e.UnlockTick())
	return &lockbox.DeliverResult{
		Data: msg.Escrow,
		Tags: []common.KVPair{
			lockbox.Tag("escrow", []byte(msg.Escrow.String())),
			lockbox.Tag("maker", []byte(msg.Maker.String())),
		},
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h MakeEscrowHandler) validate(ctx context.Context, db lockbox.KVStore, tx lockbox.Tx) (*MakeMsg, uint8, error) {
	var msg MakeMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "maker signature required")
	}
	if err := checkServices(msg.AssetRegistry, msg.AssetTransfer, msg.Allocation); err != nil {
		return nil, 0, err
	}
	bump, err := lockbox.VerifyDerivedAddress(msg.Escrow, ProgramID, escrowSeeds(msg.Maker, msg.Seed)...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "escrow")
	}
	if _, err := h.assets.Asset(db, msg.DepositAsset); err != nil {
		return nil, 0, errors.Wrap(err, "deposit asset")
	}
	if _, err := h.assets.Asset(db, msg.ReturnAsset); err != nil {
		return nil, 0, errors.Wrap(err, "return asset")
	}
	if err := checkHolding("vault", msg.Vault, msg.Escrow, msg.DepositAsset); err != nil {
		return nil, 0, err
	}
	if err := checkHolding("maker deposit holding", msg.MakerDepositHolding, msg.Maker, msg.DepositAsset); err != nil {
		return nil, 0, err
	}
	switch ok, err := h.bucket.Has(db, msg.Escrow); {
	case err != nil:
		return nil, 0, err
	case ok:
		return nil, 0, errors.Wrapf(errors.ErrDuplicate, "escrow %s", msg.Escrow)
	}
	return &msg, bump, nil
}

// TakeEscrowHandler settles unlocked deals.
type TakeEscrowHandler struct {
	handler
}

var _ lockbox.Handler = TakeEscrowHandler{}

func (h TakeEscrowHandler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, info, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: takeEscrowCost}, nil
}

func (h TakeEscrowHandler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, e, err := h.validate(ctx, info, db, tx)
	if err != nil {
		return nil, err
	}

	if _, _, err := h.assets.EnsureHolding(db, msg.Taker, msg.Taker, e.DepositAsset); err != nil {
		return nil, assetError(err, "taker deposit holding")
	}
	if _, _, err := h.assets.EnsureHolding(db, msg.Taker, e.Maker, e.ReturnAsset); err != nil {
		return nil, assetError(err, "maker return holding")
	}
	if err := h.assets.Transfer(ctx, db, h.auth, msg.TakerReturnHolding, msg.MakerReturnHolding, e.ReceiveAmount); err != nil {
		return nil, assetError(err, "payment")
	}
	amount, err := h.release(ctx, db, msg.Escrow, msg.Vault, e, msg.TakerDepositHolding)
	if err != nil {
		return nil, err
	}

	info.Logger().Info("escrow taken",
		"escrow", msg.Escrow, "taker", msg.Taker, "received", amount, "paid", e.ReceiveAmount)
	return &lockbox.DeliverResult{
		Tags: []common.KVPair{
			lockbox.Tag("escrow", []byte(msg.Escrow.String())),
			lockbox.Tag("maker", []byte(e.Maker.String())),
			lockbox.Tag("taker", []byte(msg.Taker.String())),
		},
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h TakeEscrowHandler) validate(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*TakeMsg, *Escrow, error) {
	var msg TakeMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature required")
	}
	if msg.Taker.Equals(msg.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker cannot take own escrow")
	}
	if err := checkServices(msg.AssetRegistry, msg.AssetTransfer, msg.Allocation); err != nil {
		return nil, nil, err
	}
	e, err := h.loadEscrow(db, msg.Escrow, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	if !msg.Maker.Equals(e.Maker) {
		return nil, nil, errors.Wrap(errors.ErrAddressMismatch, "maker")
	}
	if !msg.DepositAsset.Equals(e.DepositAsset) {
		return nil, nil, errors.Wrap(errors.ErrAddressMismatch, "deposit asset")
	}
	if !msg.ReturnAsset.Equals(e.ReturnAsset) {
		return nil, nil, errors.Wrap(errors.ErrAddressMismatch, "return asset")
	}
	if err := checkHolding("taker deposit holding", msg.TakerDepositHolding, msg.Taker, e.DepositAsset); err != nil {
		return nil, nil, err
	}
	if err := checkHolding("taker return holding", msg.TakerReturnHolding, msg.Taker, e.ReturnAsset); err != nil {
		return nil, nil, err
	}
	if err := checkHolding("maker return holding", msg.MakerReturnHolding, e.Maker, e.ReturnAsset); err != nil {
		return nil, nil, err
	}
	if !e.Unlocked(info) {
		return nil, nil, errors.Wrapf(ErrEscrowLocked, "unlocks at %d, now %d", e.UnlockTick(), info.Now())
	}
	return &msg, e, nil
}

// RefundEscrowHandler lets the maker cancel a deal.
type RefundEscrowHandler struct {
	handler
}

var _ lockbox.Handler = RefundEscrowHandler{}

func (h RefundEscrowHandler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: refundEscrowCost}, nil
}

func (h RefundEscrowHandler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// The maker may have closed the holding after the deposit.
	if _, _, err := h.assets.EnsureHolding(db, msg.Maker, msg.Maker, e.DepositAsset); err != nil {
		return nil, assetError(err, "maker deposit holding")
	}
	amount, err := h.release(ctx, db, msg.Escrow, msg.Vault, e, msg.MakerDepositHolding)
	if err != nil {
		return nil, err
	}

	info.Logger().Info("escrow refunded", "escrow", msg.Escrow, "maker", msg.Maker, "amount", amount)
	return &lockbox.DeliverResult{
		Tags: []common.KVPair{
			lockbox.Tag("escrow", []byte(msg.Escrow.String())),
			lockbox.Tag("maker", []byte(msg.Maker.String())),
		},
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h RefundEscrowHandler) validate(ctx context.Context, db lockbox.KVStore, tx lockbox.Tx) (*RefundMsg, *Escrow, error) {
	var msg RefundMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature required")
	}
	if err := checkServices(nil, msg.AssetTransfer, msg.Allocation); err != nil {
		return nil, nil, err
	}
	e, err := h.loadEscrow(db, msg.Escrow, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	if !msg.Maker.Equals(e.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the maker can refund")
	}
	if !msg.DepositAsset.Equals(e.DepositAsset) {
		return nil, nil, errors.Wrap(errors.ErrAddressMismatch, "deposit asset")
	}
	if err := checkHolding("maker deposit holding", msg.MakerDepositHolding, e.Maker, e.DepositAsset); err != nil {
		return nil, nil, err
	}
	return &msg, e, nil
}
