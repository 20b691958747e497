package utils

import (
	"context"
	"time"

	"github.com/iov-one/lockbox"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ lockbox.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug
func (Logging) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, info, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(info, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (Logging) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, info, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(info, tx, start, resLog, err, false)
	return res, err
}

func logDuration(info lockbox.BlockInfo, tx lockbox.Tx, start time.Time, msg string, err error, lowPrio bool) {
	logger := info.Logger().With(
		"path", lockbox.GetPath(tx),
		"tick", info.Now(),
		"duration", time.Since(start)/time.Microsecond,
	)

	// Message can be empty, the entry is still emitted for the key values.
	switch {
	case err != nil:
		logger.With("err", err).Error(msg)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
