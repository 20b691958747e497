package alloc

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
)

const (
	// AllocationBucket is where allocations are stored, keyed by the
	// allocated address.
	AllocationBucket = "allocs"
	// CreditsBucket is where storage credit balances are stored, keyed by
	// the owner.
	CreditsBucket = "credits"
)

// Allocation records who paid for an account and how much.
type Allocation struct {
	Payer   lockbox.Address
	Size    uint32
	Reserve uint64
}

var _ orm.Model = (*Allocation)(nil)

func (a *Allocation) Validate() error {
	if err := a.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	return nil
}

func (a *Allocation) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := b.EncodeRawBytes(a.Payer); err != nil {
		return nil, err
	}
	if err := b.EncodeVarint(uint64(a.Size)); err != nil {
		return nil, err
	}
	if err := b.EncodeFixed64(a.Reserve); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (a *Allocation) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	payer, err := b.DecodeRawBytes(true)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	size, err := b.DecodeVarint()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	if size > 1<<32-1 {
		return errors.Wrap(errors.ErrInvalidState, "size")
	}
	reserve, err := b.DecodeFixed64()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	a.Payer = payer
	a.Size = uint32(size)
	a.Reserve = reserve
	return lockbox.CheckCanonical(a, raw)
}

// Credits is the storage credit balance of an identity.
type Credits struct {
	Amount uint64
}

var _ orm.Model = (*Credits)(nil)

func (c *Credits) Validate() error {
	return nil
}

func (c *Credits) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := b.EncodeFixed64(c.Amount); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (c *Credits) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	amount, err := b.DecodeFixed64()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	c.Amount = amount
	return lockbox.CheckCanonical(c, raw)
}

// NewAllocationBucket returns a bucket for storing allocations.
func NewAllocationBucket() orm.Bucket {
	return orm.NewBucket(AllocationBucket, &Allocation{})
}

// NewCreditsBucket returns a bucket for storing credit balances.
func NewCreditsBucket() orm.Bucket {
	return orm.NewBucket(CreditsBucket, &Credits{})
}

// RegisterQuery exposes allocations as "/allocations" and balances as
// "/credits".
func RegisterQuery(qr lockbox.QueryRouter) {
	NewAllocationBucket().Register("allocations", qr)
	NewCreditsBucket().Register("credits", qr)
}
