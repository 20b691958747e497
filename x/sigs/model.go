package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the clients, which represent numbers as
// IEEE 754 doubles.
const maxSequenceValue = (1 << 53) - 1

// UserData keeps the replay protection state of a single signer.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if u.Pubkey == nil {
		return errors.Wrap(errors.ErrInvalidModel, "missing public key")
	}
	if _, err := crypto.NewPublicKey(u.Pubkey.Ed25519); err != nil {
		return errors.Wrap(err, "public key")
	}
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	var pub []byte
	if u.Pubkey != nil {
		pub = u.Pubkey.Ed25519
	}
	if err := b.EncodeRawBytes(pub); err != nil {
		return nil, err
	}
	if err := b.EncodeVarint(uint64(u.Sequence)); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (u *UserData) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	pub, err := b.DecodeRawBytes(true)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	seq, err := b.DecodeVarint()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	u.Pubkey = &crypto.PublicKey{Ed25519: pub}
	u.Sequence = int64(seq)
	return lockbox.CheckCanonical(u, raw)
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData by the signer address.
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate loads the user with given public key, or initializes a fresh
// one with a zero sequence.
func (b Bucket) GetOrCreate(db lockbox.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}
