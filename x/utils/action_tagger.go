package utils

import (
	"context"
	"strconv"

	"github.com/iov-one/lockbox"
)

const (
	// ActionKey tags a delivered transaction with the path of its message,
	// for example "escrow/make".
	ActionKey = "action"
	// TickKey tags a delivered transaction with the tick it executed at.
	// Clients use it to tell when an escrow was made and when it unlocks.
	TickKey = "tick"
)

// ActionTagger labels every successful DeliverTx, so clients can search or
// subscribe to deal events.
type ActionTagger struct{}

var _ lockbox.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	return next.Check(ctx, info, db, tx)
}

// Deliver appends the action and tick tags to a successful result.
func (ActionTagger) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, info, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags,
		lockbox.Tag(ActionKey, []byte(msg.Path())),
		lockbox.Tag(TickKey, []byte(strconv.FormatUint(uint64(info.Now()), 10))),
	)
	return res, nil
}
