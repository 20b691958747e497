package asset

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x"
)

const (
	pathCreateAssetMsg   = "asset/create"
	pathCreateHoldingMsg = "asset/holding"
	pathMintMsg          = "asset/mint"
	pathTransferMsg      = "asset/transfer"
	pathCloseHoldingMsg  = "asset/close"
)

// CreateAssetMsg registers a new asset type. The storage is paid by Payer,
// who must sign.
type CreateAssetMsg struct {
	Payer     lockbox.Address
	Authority lockbox.Address
	Seed      uint64
	Decimals  uint64
}

var _ lockbox.Msg = (*CreateAssetMsg)(nil)

func (CreateAssetMsg) Path() string {
	return pathCreateAssetMsg
}

func (m *CreateAssetMsg) Validate() error {
	if err := x.ValidateAccounts([]string{"payer", "authority"}, m.Payer, m.Authority); err != nil {
		return err
	}
	if m.Decimals > MaxDecimals {
		return errors.Wrapf(errors.ErrInvalidMsg, "decimals must not exceed %d", MaxDecimals)
	}
	return nil
}

func (m *CreateAssetMsg) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := x.EncodeAccounts(b, m.Payer, m.Authority); err != nil {
		return nil, err
	}
	if err := x.EncodeWords(b, m.Seed, m.Decimals); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (m *CreateAssetMsg) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	accounts, err := x.DecodeAccounts(b, 2)
	if err != nil {
		return err
	}
	words, err := x.DecodeWords(b, 2)
	if err != nil {
		return err
	}
	*m = CreateAssetMsg{
		Payer:     accounts[0],
		Authority: accounts[1],
		Seed:      words[0],
		Decimals:  words[1],
	}
	return lockbox.CheckCanonical(m, raw)
}

// CreateHoldingMsg creates the holding of Asset owned by Owner. The storage
// is paid by Payer, who must sign.
type CreateHoldingMsg struct {
	Payer lockbox.Address
	Owner lockbox.Address
	Asset lockbox.Address
}

var _ lockbox.Msg = (*CreateHoldingMsg)(nil)

func (CreateHoldingMsg) Path() string {
	return pathCreateHoldingMsg
}

func (m *CreateHoldingMsg) Validate() error {
	return x.ValidateAccounts([]string{"payer", "owner", "asset"}, m.Payer, m.Owner, m.Asset)
}

func (m *CreateHoldingMsg) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := x.EncodeAccounts(b, m.Payer, m.Owner, m.Asset); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (m *CreateHoldingMsg) Unmarshal(raw []byte) error {
	accounts, err := x.DecodeAccounts(proto.NewBuffer(raw), 3)
	if err != nil {
		return err
	}
	*m = CreateHoldingMsg{Payer: accounts[0], Owner: accounts[1], Asset: accounts[2]}
	return lockbox.CheckCanonical(m, raw)
}

// MintMsg issues Amount of new units into Holding. The asset authority must
// sign.
type MintMsg struct {
	Holding lockbox.Address
	Amount  uint64
}

var _ lockbox.Msg = (*MintMsg)(nil)

func (MintMsg) Path() string {
	return pathMintMsg
}

func (m *MintMsg) Validate() error {
	if err := x.ValidateAccounts([]string{"holding"}, m.Holding); err != nil {
		return err
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidMsg, "zero amount")
	}
	return nil
}

func (m *MintMsg) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := x.EncodeAccounts(b, m.Holding); err != nil {
		return nil, err
	}
	if err := x.EncodeWords(b, m.Amount); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (m *MintMsg) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	accounts, err := x.DecodeAccounts(b, 1)
	if err != nil {
		return err
	}
	words, err := x.DecodeWords(b, 1)
	if err != nil {
		return err
	}
	*m = MintMsg{Holding: accounts[0], Amount: words[0]}
	return lockbox.CheckCanonical(m, raw)
}

// TransferMsg moves Amount from Src to Dest. The owner of Src must sign.
type TransferMsg struct {
	Src    lockbox.Address
	Dest   lockbox.Address
	Amount uint64
}

var _ lockbox.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	if err := x.ValidateAccounts([]string{"src", "dest"}, m.Src, m.Dest); err != nil {
		return err
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidMsg, "zero amount")
	}
	return nil
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := x.EncodeAccounts(b, m.Src, m.Dest); err != nil {
		return nil, err
	}
	if err := x.EncodeWords(b, m.Amount); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	accounts, err := x.DecodeAccounts(b, 2)
	if err != nil {
		return err
	}
	words, err := x.DecodeWords(b, 1)
	if err != nil {
		return err
	}
	*m = TransferMsg{Src: accounts[0], Dest: accounts[1], Amount: words[0]}
	return lockbox.CheckCanonical(m, raw)
}

// CloseHoldingMsg removes an empty holding and credits its storage reserve
// to Dest. The holding owner must sign.
type CloseHoldingMsg struct {
	Holding lockbox.Address
	Dest    lockbox.Address
}

var _ lockbox.Msg = (*CloseHoldingMsg)(nil)

func (CloseHoldingMsg) Path() string {
	return pathCloseHoldingMsg
}

func (m *CloseHoldingMsg) Validate() error {
	return x.ValidateAccounts([]string{"holding", "dest"}, m.Holding, m.Dest)
}

func (m *CloseHoldingMsg) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := x.EncodeAccounts(b, m.Holding, m.Dest); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (m *CloseHoldingMsg) Unmarshal(raw []byte) error {
	accounts, err := x.DecodeAccounts(proto.NewBuffer(raw), 2)
	if err != nil {
		return err
	}
	*m = CloseHoldingMsg{Holding: accounts[0], Dest: accounts[1]}
	return lockbox.CheckCanonical(m, raw)
}
