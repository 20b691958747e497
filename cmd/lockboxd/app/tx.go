package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/asset"
	"github.com/iov-one/lockbox/x/escrow"
	"github.com/iov-one/lockbox/x/sigs"
)

// msgFactory creates an empty message for every supported path.
var msgFactory = map[string]func() lockbox.Msg{}

func registerMsg(fn func() lockbox.Msg) {
	msgFactory[fn().Path()] = fn
}

func init() {
	registerMsg(func() lockbox.Msg { return &asset.CreateAssetMsg{} })
	registerMsg(func() lockbox.Msg { return &asset.CreateHoldingMsg{} })
	registerMsg(func() lockbox.Msg { return &asset.MintMsg{} })
	registerMsg(func() lockbox.Msg { return &asset.TransferMsg{} })
	registerMsg(func() lockbox.Msg { return &asset.CloseHoldingMsg{} })
	registerMsg(func() lockbox.Msg { return &escrow.MakeMsg{} })
	registerMsg(func() lockbox.Msg { return &escrow.TakeMsg{} })
	registerMsg(func() lockbox.Msg { return &escrow.RefundMsg{} })
}

// Tx carries a single serialized message, identified by its path, together
// with the signatures authorizing it.
type Tx struct {
	Path       string               `json:"path"`
	Msg        []byte               `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`
}

// make sure tx fulfills all interfaces
var _ lockbox.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction for msg.
func NewTx(msg lockbox.Msg) (*Tx, error) {
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal msg")
	}
	return &Tx{Path: msg.Path(), Msg: raw}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (lockbox.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg decodes the message for the path declared by the transaction.
func (tx *Tx) GetMsg() (lockbox.Msg, error) {
	fn, ok := msgFactory[tx.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "unknown message path %q", tx.Path)
	}
	msg := fn()
	if err := msg.Unmarshal(tx.Msg); err != nil {
		return nil, errors.Wrapf(err, "decode %s", tx.Path)
	}
	return msg, nil
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// the sign bytes only come from the data itself, not the signatures
	unsigned := Tx{Path: tx.Path, Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

func (tx *Tx) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := b.EncodeStringBytes(tx.Path); err != nil {
		return nil, err
	}
	if err := b.EncodeRawBytes(tx.Msg); err != nil {
		return nil, err
	}
	if err := b.EncodeVarint(uint64(len(tx.Signatures))); err != nil {
		return nil, err
	}
	for i, sig := range tx.Signatures {
		raw, err := sig.Marshal()
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		if err := b.EncodeRawBytes(raw); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	path, err := b.DecodeStringBytes()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	msg, err := b.DecodeRawBytes(true)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	n, err := b.DecodeVarint()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	// every signature takes at least one byte
	if n > uint64(len(raw)) {
		return errors.Wrap(errors.ErrInvalidInput, "signature count")
	}
	signatures := make([]*sigs.StdSignature, 0, n)
	for i := uint64(0); i < n; i++ {
		chunk, err := b.DecodeRawBytes(false)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "signature %d: %s", i, err)
		}
		var sig sigs.StdSignature
		if err := sig.Unmarshal(chunk); err != nil {
			return errors.Wrapf(err, "signature %d", i)
		}
		signatures = append(signatures, &sig)
	}
	*tx = Tx{Path: path, Msg: msg}
	if len(signatures) > 0 {
		tx.Signatures = signatures
	}
	return lockbox.CheckCanonical(tx, raw)
}
