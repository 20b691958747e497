package sigs

import (
	"context"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/lockboxtest"
)

// stdTx is a signed transaction carrying a mock message.
type stdTx struct {
	lockboxtest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	return &stdTx{
		Tx: lockboxtest.Tx{
			Msg: &lockboxtest.Msg{RoutePath: "test/sigs", Serialized: payload},
		},
	}
}

func (tx *stdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

func (tx *stdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []lockbox.Address
}

var _ lockbox.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	s.Signers = Authenticate{}.GetAddresses(ctx)
	return &lockbox.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	s.Signers = Authenticate{}.GetAddresses(ctx)
	return &lockbox.DeliverResult{}, nil
}
