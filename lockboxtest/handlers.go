package lockboxtest

import (
	"context"

	"github.com/iov-one/lockbox"
)

// Handler is a mock of lockbox.Handler returning configured results and
// counting calls.
type Handler struct {
	checkCall   int
	CheckResult lockbox.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult lockbox.DeliverResult
	DeliverErr    error
}

var _ lockbox.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes Key/Value to the store and then returns Err.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ lockbox.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &lockbox.CheckResult{}, nil
}

func (h WriteHandler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &lockbox.DeliverResult{}, nil
}

// PanicHandler always panics with Value.
type PanicHandler struct {
	Value interface{}
}

var _ lockbox.Handler = PanicHandler{}

func (h PanicHandler) Check(context.Context, lockbox.BlockInfo, lockbox.KVStore, lockbox.Tx) (*lockbox.CheckResult, error) {
	panic(h.Value)
}

func (h PanicHandler) Deliver(context.Context, lockbox.BlockInfo, lockbox.KVStore, lockbox.Tx) (*lockbox.DeliverResult, error) {
	panic(h.Value)
}

// Decorator is a mock implementation of the lockbox.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding
// method. If error attributes are not set then wrapped handler method is
// called and its result returned.
type Decorator struct {
	checkCall   int
	CheckErr    error
	deliverCall int
	DeliverErr  error
}

var _ lockbox.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, info, db, tx)
}

func (d *Decorator) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, info, db, tx)
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler calling h through d.
func Decorate(h lockbox.Handler, d lockbox.Decorator) lockbox.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn lockbox.Handler
	dc lockbox.Decorator
}

var _ lockbox.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	return d.dc.Check(ctx, info, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	return d.dc.Deliver(ctx, info, db, tx, d.hn)
}
