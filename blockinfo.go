package lockbox

import (
	"regexp"
	"time"

	"github.com/iov-one/lockbox/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	// DefaultLogger is used for all block info that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// Tick is the unit of logical time. One tick passes with every block.
type Tick uint64

// Clock is a read-only source of the current logical time.
type Clock interface {
	Now() Tick
}

// BlockInfo describes the block a transaction is executed in. It is the clock
// all handlers use.
type BlockInfo struct {
	header  abci.Header
	chainID string
	logger  log.Logger
}

var _ Clock = BlockInfo{}

// NewBlockInfo creates a BlockInfo struct with current context of where it is being executed
func NewBlockInfo(header abci.Header, chainID string, logger log.Logger) (BlockInfo, error) {
	if !IsValidChainID(chainID) {
		return BlockInfo{}, errors.Wrap(errors.ErrInvalidInput, "chainID invalid")
	}
	if header.Height < 0 {
		return BlockInfo{}, errors.Wrap(errors.ErrInvalidInput, "negative height")
	}
	if logger == nil {
		logger = DefaultLogger
	}
	return BlockInfo{
		header:  header,
		chainID: chainID,
		logger:  logger,
	}, nil
}

func (b BlockInfo) Header() abci.Header {
	return b.header
}

func (b BlockInfo) ChainID() string {
	return b.chainID
}

func (b BlockInfo) Height() int64 {
	return b.header.Height
}

func (b BlockInfo) BlockTime() time.Time {
	return b.header.Time
}

// Now returns the block height as the current tick.
func (b BlockInfo) Now() Tick {
	return Tick(b.header.Height)
}

func (b BlockInfo) Logger() log.Logger {
	if b.logger == nil {
		return DefaultLogger
	}
	return b.logger
}

// WithLogInfo accepts keyvalue pairs, and returns another
// block info like this, after passing all the keyvals to the
// Logger
func (b BlockInfo) WithLogInfo(keyvals ...interface{}) BlockInfo {
	b.logger = b.Logger().With(keyvals...)
	return b
}

// Elapsed returns true if at least period ticks passed since start, as
// compared to the "now" declared for the block. A start in the future never
// elapses and the computation cannot overflow.
func Elapsed(c Clock, start Tick, period uint64) bool {
	now := c.Now()
	if now < start {
		return false
	}
	return uint64(now-start) >= period
}
