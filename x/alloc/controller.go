package alloc

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
)

// ProgramID identifies the storage allocation service in the account list
// of transactions.
var ProgramID = lockbox.NewAddress([]byte("lockbox/alloc"))

// Controller allocates storage for accounts.
type Controller interface {
	// Allocate reserves storage of given size for addr. The reserve is paid
	// by payer.
	Allocate(db lockbox.KVStore, payer, addr lockbox.Address, size uint32) error
	// Reclaim releases the allocation of addr and credits its reserve to
	// dest.
	Reclaim(db lockbox.KVStore, addr, dest lockbox.Address) error
	// IsAllocated returns true if storage for addr is allocated.
	IsAllocated(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (bool, error)
}

// BaseController is the default Controller implementation.
type BaseController struct {
	allocs  orm.Bucket
	credits orm.Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the default buckets.
func NewController() BaseController {
	return BaseController{
		allocs:  NewAllocationBucket(),
		credits: NewCreditsBucket(),
	}
}

func (c BaseController) Allocate(db lockbox.KVStore, payer, addr lockbox.Address, size uint32) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	switch ok, err := c.allocs.Has(db, addr); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(ErrAlreadyAllocated, "%s", addr)
	}

	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	reserve, err := conf.Reserve(size)
	if err != nil {
		return err
	}
	if err := c.withdraw(db, payer, reserve); err != nil {
		return err
	}
	alloc := Allocation{Payer: payer, Size: size, Reserve: reserve}
	return c.allocs.Create(db, addr, &alloc)
}

func (c BaseController) Reclaim(db lockbox.KVStore, addr, dest lockbox.Address) error {
	var alloc Allocation
	if err := c.allocs.One(db, addr, &alloc); err != nil {
		return err
	}
	if err := c.allocs.Delete(db, addr); err != nil {
		return err
	}
	return c.Credit(db, dest, alloc.Reserve)
}

func (c BaseController) IsAllocated(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (bool, error) {
	return c.allocs.Has(db, addr)
}

// Balance returns the storage credits owned by addr.
func (c BaseController) Balance(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (uint64, error) {
	var credits Credits
	switch err := c.credits.One(db, addr, &credits); {
	case err == nil:
		return credits.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Credit adds storage credits to the balance of dest.
func (c BaseController) Credit(db lockbox.KVStore, dest lockbox.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	balance, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	total := balance + amount
	if total < balance {
		return errors.Wrap(errors.ErrOverflow, "credits")
	}
	return c.credits.Put(db, dest, &Credits{Amount: total})
}

func (c BaseController) withdraw(db lockbox.KVStore, src lockbox.Address, amount uint64) error {
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	balance, err := c.Balance(db, src)
	if err != nil {
		return err
	}
	if balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "payer has %d credits, %d required", balance, amount)
	}
	if balance == amount {
		if err := c.credits.Delete(db, src); err != nil {
			return err
		}
		return nil
	}
	return c.credits.Put(db, src, &Credits{Amount: balance - amount})
}
