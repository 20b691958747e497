package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x"
)

const (
	pathMakeMsg   = "escrow/make"
	pathTakeMsg   = "escrow/take"
	pathRefundMsg = "escrow/refund"
)

// MakeMsg opens a new deal. Maker deposits DepositAmount of DepositAsset
// into the vault and asks for ReceiveAmount of ReturnAsset in exchange.
type MakeMsg struct {
	Maker               lockbox.Address
	DepositAsset        lockbox.Address
	ReturnAsset         lockbox.Address
	MakerDepositHolding lockbox.Address
	Escrow              lockbox.Address
	Vault               lockbox.Address
	AssetRegistry       lockbox.Address
	AssetTransfer       lockbox.Address
	Allocation          lockbox.Address

	DepositAmount uint64
	Seed          uint64
	ReceiveAmount uint64
	LockPeriod    uint64
}

var _ lockbox.Msg = (*MakeMsg)(nil)

func (MakeMsg) Path() string {
	return pathMakeMsg
}

func (m *MakeMsg) accounts() []lockbox.Address {
	return []lockbox.Address{
		m.Maker, m.DepositAsset, m.ReturnAsset, m.MakerDepositHolding,
		m.Escrow, m.Vault, m.AssetRegistry, m.AssetTransfer, m.Allocation,
	}
}

var makeAccounts = []string{
	"maker", "deposit_asset", "return_asset", "maker_deposit_holding",
	"escrow", "vault", "asset_registry", "asset_transfer", "allocation",
}

func (m *MakeMsg) Validate() error {
	if err := x.ValidateAccounts(makeAccounts, m.accounts()...); err != nil {
		return err
	}
	if m.DepositAmount == 0 {
		return errors.Wrap(errors.ErrInvalidMsg, "zero deposit amount")
	}
	if m.ReceiveAmount == 0 {
		return errors.Wrap(errors.ErrInvalidMsg, "zero receive amount")
	}
	if m.DepositAsset.Equals(m.ReturnAsset) {
		return errors.Wrap(errors.ErrInvalidMsg, "deposit and return asset must differ")
	}
	return nil
}

func (m *MakeMsg) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := x.EncodeAccounts(b, m.accounts()...); err != nil {
		return nil, err
	}
	if err := x.EncodeWords(b, m.DepositAmount, m.Seed, m.ReceiveAmount, m.LockPeriod); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (m *MakeMsg) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	a, err := x.DecodeAccounts(b, len(makeAccounts))
	if err != nil {
		return err
	}
	w, err := x.DecodeWords(b, 4)
	if err != nil {
		return err
	}
	*m = MakeMsg{
		Maker:               a[0],
		DepositAsset:        a[1],
		ReturnAsset:         a[2],
		MakerDepositHolding: a[3],
		Escrow:              a[4],
		Vault:               a[5],
		AssetRegistry:       a[6],
		AssetTransfer:       a[7],
		Allocation:          a[8],
		DepositAmount:       w[0],
		Seed:                w[1],
		ReceiveAmount:       w[2],
		LockPeriod:          w[3],
	}
	return lockbox.CheckCanonical(m, raw)
}

// TakeMsg claims an unlocked deal. Taker pays the requested amount to the
// maker and receives the vault content.
type TakeMsg struct {
	Taker               lockbox.Address
	Maker               lockbox.Address
	DepositAsset        lockbox.Address
	ReturnAsset         lockbox.Address
	TakerDepositHolding lockbox.Address
	TakerReturnHolding  lockbox.Address
	MakerReturnHolding  lockbox.Address
	Escrow              lockbox.Address
	Vault               lockbox.Address
	AssetRegistry       lockbox.Address
	AssetTransfer       lockbox.Address
	Allocation          lockbox.Address
}

var _ lockbox.Msg = (*TakeMsg)(nil)

func (TakeMsg) Path() string {
	return pathTakeMsg
}

var takeAccounts = []string{
	"taker", "maker", "deposit_asset", "return_asset",
	"taker_deposit_holding", "taker_return_holding", "maker_return_holding",
	"escrow", "vault", "asset_registry", "asset_transfer", "allocation",
}

func (m *TakeMsg) accounts() []lockbox.Address {
	return []lockbox.Address{
		m.Taker, m.Maker, m.DepositAsset, m.ReturnAsset,
		m.TakerDepositHolding, m.TakerReturnHolding, m.MakerReturnHolding,
		m.Escrow, m.Vault, m.AssetRegistry, m.AssetTransfer, m.Allocation,
	}
}

func (m *TakeMsg) Validate() error {
	return x.ValidateAccounts(takeAccounts, m.accounts()...)
}

func (m *TakeMsg) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := x.EncodeAccounts(b, m.accounts()...); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (m *TakeMsg) Unmarshal(raw []byte) error {
	a, err := x.DecodeAccounts(proto.NewBuffer(raw), len(takeAccounts))
	if err != nil {
		return err
	}
	*m = TakeMsg{
		Taker:               a[0],
		Maker:               a[1],
		DepositAsset:        a[2],
		ReturnAsset:         a[3],
		TakerDepositHolding: a[4],
		TakerReturnHolding:  a[5],
		MakerReturnHolding:  a[6],
		Escrow:              a[7],
		Vault:               a[8],
		AssetRegistry:       a[9],
		AssetTransfer:       a[10],
		Allocation:          a[11],
	}
	return lockbox.CheckCanonical(m, raw)
}

// RefundMsg cancels a deal that was not taken yet, returning the vault
// content to the maker.
type RefundMsg struct {
	Maker               lockbox.Address
	DepositAsset        lockbox.Address
	MakerDepositHolding lockbox.Address
	Escrow              lockbox.Address
	Vault               lockbox.Address
	AssetTransfer       lockbox.Address
	Allocation          lockbox.Address
}

var _ lockbox.Msg = (*RefundMsg)(nil)

func (RefundMsg) Path() string {
	return pathRefundMsg
}

var refundAccounts = []string{
	"maker", "deposit_asset", "maker_deposit_holding",
	"escrow", "vault", "asset_transfer", "allocation",
}

func (m *RefundMsg) accounts() []lockbox.Address {
	return []lockbox.Address{
		m.Maker, m.DepositAsset, m.MakerDepositHolding,
		m.Escrow, m.Vault, m.AssetTransfer, m.Allocation,
	}
}

func (m *RefundMsg) Validate() error {
	return x.ValidateAccounts(refundAccounts, m.accounts()...)
}

func (m *RefundMsg) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := x.EncodeAccounts(b, m.accounts()...); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (m *RefundMsg) Unmarshal(raw []byte) error {
	a, err := x.DecodeAccounts(proto.NewBuffer(raw), len(refundAccounts))
	if err != nil {
		return err
	}
	*m = RefundMsg{
		Maker:               a[0],
		DepositAsset:        a[1],
		MakerDepositHolding: a[2],
		Escrow:              a[3],
		Vault:               a[4],
		AssetTransfer:       a[5],
		Allocation:          a[6],
	}
	return lockbox.CheckCanonical(m, raw)
}
