package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature of the transaction together with the public
// key and the sequence it was created for.
type StdSignature struct {
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
	Sequence  int64
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil || len(s.Pubkey.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil || len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	b := proto.NewBuffer(nil)
	if err := b.EncodeRawBytes(s.Pubkey.Ed25519); err != nil {
		return nil, err
	}
	if err := b.EncodeRawBytes(s.Signature.Ed25519); err != nil {
		return nil, err
	}
	if err := b.EncodeVarint(uint64(s.Sequence)); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	pub, err := b.DecodeRawBytes(true)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	sig, err := b.DecodeRawBytes(true)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	seq, err := b.DecodeVarint()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	s.Pubkey = &crypto.PublicKey{Ed25519: pub}
	s.Signature = &crypto.Signature{Ed25519: sig}
	s.Sequence = int64(seq)
	return lockbox.CheckCanonical(s, raw)
}
