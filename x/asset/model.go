package asset

import (
	"encoding/binary"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
	"github.com/iov-one/lockbox/x"
)

var (
	// RegistryID identifies the asset registry program. Assets and
	// holdings are derived under it.
	RegistryID = lockbox.NewAddress([]byte("lockbox/asset"))

	// TransferID identifies the asset transfer program.
	TransferID = lockbox.NewAddress([]byte("lockbox/transfer"))
)

const (
	// AssetSize is the size of the asset data, used to price its storage.
	AssetSize = lockbox.AddressLength + 1 + 8
	// HoldingSize is the size of the holding data, used to price its
	// storage.
	HoldingSize = 2*lockbox.AddressLength + 8
)

// MaxDecimals is the highest precision an asset can declare.
const MaxDecimals = 18

// Asset is a fungible asset type.
type Asset struct {
	// Authority is the only identity allowed to mint.
	Authority lockbox.Address
	Decimals  uint8
	// Supply is the total minted amount.
	Supply uint64
}

var _ orm.Model = (*Asset)(nil)

func (a *Asset) Validate() error {
	if err := a.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if a.Decimals > MaxDecimals {
		return errors.Wrapf(errors.ErrInvalidModel, "decimals must not exceed %d", MaxDecimals)
	}
	return nil
}

func (a *Asset) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := x.EncodeAccounts(b, a.Authority); err != nil {
		return nil, err
	}
	if err := b.EncodeVarint(uint64(a.Decimals)); err != nil {
		return nil, err
	}
	if err := x.EncodeWords(b, a.Supply); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (a *Asset) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	accounts, err := x.DecodeAccounts(b, 1)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	decimals, err := b.DecodeVarint()
	if err != nil || decimals > 255 {
		return errors.Wrap(errors.ErrInvalidState, "decimals")
	}
	words, err := x.DecodeWords(b, 1)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	a.Authority = accounts[0]
	a.Decimals = uint8(decimals)
	a.Supply = words[0]
	return lockbox.CheckCanonical(a, raw)
}

// Holding is the balance of one asset owned by one identity.
type Holding struct {
	Asset  lockbox.Address
	Owner  lockbox.Address
	Amount uint64
}

var _ orm.Model = (*Holding)(nil)

func (h *Holding) Validate() error {
	if err := h.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if err := h.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

func (h *Holding) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := x.EncodeAccounts(b, h.Asset, h.Owner); err != nil {
		return nil, err
	}
	if err := x.EncodeWords(b, h.Amount); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (h *Holding) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	accounts, err := x.DecodeAccounts(b, 2)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	words, err := x.DecodeWords(b, 1)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	h.Asset = accounts[0]
	h.Owner = accounts[1]
	h.Amount = words[0]
	return lockbox.CheckCanonical(h, raw)
}

// AssetAddress returns the address of the asset created by authority with
// given seed.
func AssetAddress(authority lockbox.Address, seed uint64) (lockbox.Address, error) {
	addr, _, err := lockbox.DeriveAddress(RegistryID, []byte("asset"), authority, seedBytes(seed))
	return addr, err
}

// HoldingAddress returns the address of the holding of asset owned by
// owner.
func HoldingAddress(owner, asset lockbox.Address) (lockbox.Address, error) {
	addr, _, err := lockbox.DeriveAddress(RegistryID, owner, TransferID, asset)
	return addr, err
}

func seedBytes(seed uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, seed)
	return b
}

// NewAssetBucket returns a bucket for storing assets.
func NewAssetBucket() orm.Bucket {
	return orm.NewBucket("assets", &Asset{})
}

// NewHoldingBucket returns a bucket for storing holdings.
func NewHoldingBucket() orm.Bucket {
	return orm.NewBucket("holdings", &Holding{})
}

// RegisterQuery exposes assets as "/assets" and holdings as "/holdings".
func RegisterQuery(qr lockbox.QueryRouter) {
	NewAssetBucket().Register("", qr)
	NewHoldingBucket().Register("", qr)
}
