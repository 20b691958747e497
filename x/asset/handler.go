package asset

import (
	"context"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x"
)

const (
	createAssetCost   int64 = 200
	createHoldingCost int64 = 100
	mintCost          int64 = 50
	transferCost      int64 = 50
	closeHoldingCost  int64 = 0
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r lockbox.Registry, auth x.Authenticator, ctrl BaseController) {
	r.Handle(&CreateAssetMsg{}, CreateAssetHandler{auth: auth, ctrl: ctrl})
	r.Handle(&CreateHoldingMsg{}, CreateHoldingHandler{auth: auth, ctrl: ctrl})
	r.Handle(&MintMsg{}, MintHandler{auth: auth, ctrl: ctrl})
	r.Handle(&TransferMsg{}, TransferHandler{auth: auth, ctrl: ctrl})
	r.Handle(&CloseHoldingMsg{}, CloseHoldingHandler{auth: auth, ctrl: ctrl})
}

// CreateAssetHandler registers new asset types.
type CreateAssetHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ lockbox.Handler = CreateAssetHandler{}

func (h CreateAssetHandler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: createAssetCost}, nil
}

func (h CreateAssetHandler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.CreateAsset(db, msg.Payer, msg.Authority, msg.Seed, uint8(msg.Decimals))
	if err != nil {
		return nil, err
	}
	info.Logger().Info("asset created", "asset", addr, "authority", msg.Authority)
	return &lockbox.DeliverResult{Data: addr}, nil
}

func (h CreateAssetHandler) validate(ctx context.Context, tx lockbox.Tx) (*CreateAssetMsg, error) {
	var msg CreateAssetMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature required")
	}
	return &msg, nil
}

// CreateHoldingHandler creates holdings on behalf of any owner.
type CreateHoldingHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ lockbox.Handler = CreateHoldingHandler{}

func (h CreateHoldingHandler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: createHoldingCost}, nil
}

func (h CreateHoldingHandler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, _, err := h.ctrl.EnsureHolding(db, msg.Payer, msg.Owner, msg.Asset)
	if err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{Data: addr}, nil
}

func (h CreateHoldingHandler) validate(ctx context.Context, db lockbox.KVStore, tx lockbox.Tx) (*CreateHoldingMsg, error) {
	var msg CreateHoldingMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature required")
	}
	addr, err := HoldingAddress(msg.Owner, msg.Asset)
	if err != nil {
		return nil, err
	}
	switch ok, err := h.ctrl.holdings.Has(db, addr); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrapf(errors.ErrDuplicate, "holding %s", addr)
	}
	return &msg, nil
}

// MintHandler issues new asset units.
type MintHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ lockbox.Handler = MintHandler{}

func (h MintHandler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	var msg MintMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &lockbox.CheckResult{GasAllocated: mintCost}, nil
}

func (h MintHandler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	var msg MintMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.Mint(ctx, db, h.auth, msg.Holding, msg.Amount); err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{}, nil
}

// TransferHandler moves funds between holdings.
type TransferHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ lockbox.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	var msg TransferMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &lockbox.CheckResult{GasAllocated: transferCost}, nil
}

func (h TransferHandler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	var msg TransferMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.Transfer(ctx, db, h.auth, msg.Src, msg.Dest, msg.Amount); err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{}, nil
}

// CloseHoldingHandler removes empty holdings.
type CloseHoldingHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ lockbox.Handler = CloseHoldingHandler{}

func (h CloseHoldingHandler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	var msg CloseHoldingMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &lockbox.CheckResult{GasAllocated: closeHoldingCost}, nil
}

func (h CloseHoldingHandler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	var msg CloseHoldingMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.CloseHolding(ctx, db, h.auth, msg.Holding, msg.Dest); err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{}, nil
}
