package asset

import (
	"context"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
	"github.com/iov-one/lockbox/x"
	"github.com/iov-one/lockbox/x/alloc"
)

// Controller is the asset registry and transfer service used by other
// extensions.
//
// Every operation that takes funds out of a holding, or closes it, requires
// the holding owner to be authenticated by the given Authenticator.
type Controller interface {
	// EnsureHolding returns the holding of asset owned by owner, creating
	// it with storage paid by payer if it does not exist yet.
	EnsureHolding(db lockbox.KVStore, payer, owner, asset lockbox.Address) (lockbox.Address, *Holding, error)
	// Transfer moves amount between two holdings of the same asset.
	Transfer(ctx context.Context, db lockbox.KVStore, auth x.Authenticator, src, dest lockbox.Address, amount uint64) error
	// CloseHolding removes an empty holding. Its storage reserve is
	// credited to dest.
	CloseHolding(ctx context.Context, db lockbox.KVStore, auth x.Authenticator, holding, dest lockbox.Address) error
	// Holding loads the holding stored at given address.
	Holding(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (*Holding, error)
	// Asset loads the asset registered at given address.
	Asset(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (*Asset, error)
}

// BaseController is the default Controller implementation.
type BaseController struct {
	assets   orm.Bucket
	holdings orm.Bucket
	alloc    alloc.Controller
}

var _ Controller = BaseController{}

// NewController returns a controller that pays for storage using given
// allocation service.
func NewController(allocs alloc.Controller) BaseController {
	return BaseController{
		assets:   NewAssetBucket(),
		holdings: NewHoldingBucket(),
		alloc:    allocs,
	}
}

// CreateAsset registers a new asset type controlled by authority.
func (c BaseController) CreateAsset(db lockbox.KVStore, payer, authority lockbox.Address, seed uint64, decimals uint8) (lockbox.Address, error) {
	addr, err := AssetAddress(authority, seed)
	if err != nil {
		return nil, err
	}
	switch ok, err := c.assets.Has(db, addr); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrapf(errors.ErrDuplicate, "asset %s", addr)
	}
	if err := c.alloc.Allocate(db, payer, addr, AssetSize); err != nil {
		return nil, errors.Wrap(err, "allocate asset")
	}
	asset := Asset{Authority: authority, Decimals: decimals}
	if err := c.assets.Create(db, addr, &asset); err != nil {
		return nil, err
	}
	return addr, nil
}

// Asset loads the asset stored at given address.
func (c BaseController) Asset(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (*Asset, error) {
	var asset Asset
	if err := c.assets.One(db, addr, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (c BaseController) Holding(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (*Holding, error) {
	var h Holding
	if err := c.holdings.One(db, addr, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c BaseController) EnsureHolding(db lockbox.KVStore, payer, owner, asset lockbox.Address) (lockbox.Address, *Holding, error) {
	addr, err := HoldingAddress(owner, asset)
	if err != nil {
		return nil, nil, err
	}
	switch h, err := c.Holding(db, addr); {
	case err == nil:
		return addr, h, nil
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}

	if _, err := c.Asset(db, asset); err != nil {
		return nil, nil, errors.Wrap(err, "asset")
	}
	if err := c.alloc.Allocate(db, payer, addr, HoldingSize); err != nil {
		return nil, nil, errors.Wrap(err, "allocate holding")
	}
	h := Holding{Asset: asset, Owner: owner}
	if err := c.holdings.Create(db, addr, &h); err != nil {
		return nil, nil, err
	}
	return addr, &h, nil
}

func (c BaseController) Transfer(ctx context.Context, db lockbox.KVStore, auth x.Authenticator, src, dest lockbox.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero transfer")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInvalidInput, "source and destination are the same holding")
	}
	from, err := c.Holding(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	to, err := c.Holding(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !from.Asset.Equals(to.Asset) {
		return errors.Wrapf(errors.ErrInvalidType, "cannot transfer %s into a holding of %s", from.Asset, to.Asset)
	}
	if !auth.HasAddress(ctx, from.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "source owner")
	}
	if from.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "holding has %d, %d required", from.Amount, amount)
	}
	if to.Amount+amount < to.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination amount")
	}
	from.Amount -= amount
	to.Amount += amount
	if err := c.holdings.Put(db, src, from); err != nil {
		return err
	}
	return c.holdings.Put(db, dest, to)
}

func (c BaseController) CloseHolding(ctx context.Context, db lockbox.KVStore, auth x.Authenticator, holding, dest lockbox.Address) error {
	h, err := c.Holding(db, holding)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, h.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "holding owner")
	}
	if h.Amount != 0 {
		return errors.Wrapf(errors.ErrInvalidState, "holding not empty: %d", h.Amount)
	}
	if err := c.holdings.Delete(db, holding); err != nil {
		return err
	}
	return c.alloc.Reclaim(db, holding, dest)
}

// Mint issues new units of an asset into a holding of that asset. Only the
// asset authority can mint.
func (c BaseController) Mint(ctx context.Context, db lockbox.KVStore, auth x.Authenticator, holding lockbox.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero mint")
	}
	h, err := c.Holding(db, holding)
	if err != nil {
		return err
	}
	asset, err := c.Asset(db, h.Asset)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, asset.Authority) {
		return errors.Wrap(errors.ErrUnauthorized, "asset authority")
	}
	return c.mint(db, holding, h, asset, amount)
}

// issue mints without checking the authority.
func (c BaseController) issue(db lockbox.KVStore, holding lockbox.Address, amount uint64) error {
	h, err := c.Holding(db, holding)
	if err != nil {
		return err
	}
	asset, err := c.Asset(db, h.Asset)
	if err != nil {
		return err
	}
	return c.mint(db, holding, h, asset, amount)
}

func (c BaseController) mint(db lockbox.KVStore, holding lockbox.Address, h *Holding, asset *Asset, amount uint64) error {
	if asset.Supply+amount < asset.Supply {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	asset.Supply += amount
	h.Amount += amount
	if err := c.assets.Put(db, h.Asset, asset); err != nil {
		return err
	}
	return c.holdings.Put(db, holding, h)
}
