package app

import (
	"github.com/iov-one/lockbox/commands"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/x/alloc"
	"github.com/iov-one/lockbox/x/asset"
	"github.com/iov-one/lockbox/x/escrow"
	"github.com/iov-one/lockbox/x/sigs"
)

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	makerKey := crypto.GenPrivKeyEd25519()
	maker := makerKey.PublicKey().Address()
	taker := crypto.GenPrivKeyEd25519().PublicKey().Address()

	deposit, err := asset.AssetAddress(maker, 1)
	if err != nil {
		panic(err)
	}
	wanted, err := asset.AssetAddress(taker, 1)
	if err != nil {
		panic(err)
	}
	holding := func(owner []byte, assetID []byte) []byte {
		addr, err := asset.HoldingAddress(owner, assetID)
		if err != nil {
			panic(err)
		}
		return addr
	}
	addr, bump, err := escrow.EscrowAddress(maker, 123)
	if err != nil {
		panic(err)
	}

	record := &escrow.Escrow{
		Seed:          123,
		Maker:         maker,
		DepositAsset:  deposit,
		ReturnAsset:   wanted,
		ReceiveAmount: 10,
		LockPeriod:    10,
		StartTime:     1000,
		Bump:          bump,
	}
	makeMsg := &escrow.MakeMsg{
		Maker:               maker,
		DepositAsset:        deposit,
		ReturnAsset:         wanted,
		MakerDepositHolding: holding(maker, deposit),
		Escrow:              addr,
		Vault:               holding(addr, deposit),
		AssetRegistry:       asset.RegistryID,
		AssetTransfer:       asset.TransferID,
		Allocation:          alloc.ProgramID,
		DepositAmount:       10,
		Seed:                123,
		ReceiveAmount:       10,
		LockPeriod:          10,
	}
	takeMsg := &escrow.TakeMsg{
		Taker:               taker,
		Maker:               maker,
		DepositAsset:        deposit,
		ReturnAsset:         wanted,
		TakerDepositHolding: holding(taker, deposit),
		TakerReturnHolding:  holding(taker, wanted),
		MakerReturnHolding:  holding(maker, wanted),
		Escrow:              addr,
		Vault:               holding(addr, deposit),
		AssetRegistry:       asset.RegistryID,
		AssetTransfer:       asset.TransferID,
		Allocation:          alloc.ProgramID,
	}
	refundMsg := &escrow.RefundMsg{
		Maker:               maker,
		DepositAsset:        deposit,
		MakerDepositHolding: holding(maker, deposit),
		Escrow:              addr,
		Vault:               holding(addr, deposit),
		AssetTransfer:       asset.TransferID,
		Allocation:          alloc.ProgramID,
	}
	user := &sigs.UserData{
		Pubkey:   makerKey.PublicKey(),
		Sequence: 17,
	}

	unsigned, err := NewTx(makeMsg)
	if err != nil {
		panic(err)
	}
	tx := *unsigned
	sig, err := sigs.SignTx(makerKey, &tx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "escrow", Obj: record},
		{Filename: "user", Obj: user},
		{Filename: "make_msg", Obj: makeMsg},
		{Filename: "take_msg", Obj: takeMsg},
		{Filename: "refund_msg", Obj: refundMsg},
		{Filename: "unsigned_tx", Obj: unsigned},
		{Filename: "signed_tx", Obj: &tx},
	}
}
