package utils

import (
	"context"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ lockbox.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (Recovery) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (_ *lockbox.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, info, db, tx)
}

// Deliver turns panics into normal errors
func (Recovery) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (_ *lockbox.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, info, db, tx)
}
