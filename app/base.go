package app

import (
	"context"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// MaxTxSize is the largest transaction accepted. The biggest message, a
// take, carries twelve accounts and needs well below this.
const MaxTxSize = 4096

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder lockbox.TxDecoder
	handler lockbox.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(store *StoreApp, decoder lockbox.TxDecoder, handler lockbox.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, info, err := b.prepare(txBytes, "deliver_tx")
	if err != nil {
		return lockbox.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(context.Background(), info, b.DeliverStore(), tx)
	return lockbox.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, info, err := b.prepare(txBytes, "check_tx")
	if err != nil {
		return lockbox.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(context.Background(), info, b.CheckStore(), tx)
	return lockbox.CheckOrError(res, err, b.debug)
}

// prepare decodes the transaction and builds the block info it runs with.
func (b BaseApp) prepare(txBytes []byte, call string) (lockbox.Tx, lockbox.BlockInfo, error) {
	if len(txBytes) > MaxTxSize {
		return nil, lockbox.BlockInfo{}, errors.Wrapf(errors.ErrInvalidInput,
			"transaction of %d bytes exceeds %d", len(txBytes), MaxTxSize)
	}
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return nil, lockbox.BlockInfo{}, err
	}
	info, err := b.BlockInfo("call", call, "path", lockbox.GetPath(tx))
	if err != nil {
		return nil, lockbox.BlockInfo{}, err
	}
	return tx, info, nil
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx lockbox.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
