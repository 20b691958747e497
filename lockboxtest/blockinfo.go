package lockboxtest

import (
	"time"

	"github.com/iov-one/lockbox"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ChainID is used by all block infos created by this package.
const ChainID = "lockbox-test"

// BlockAt returns block information for a block at given tick (height).
func BlockAt(tick lockbox.Tick) lockbox.BlockInfo {
	header := abci.Header{
		ChainID: ChainID,
		Height:  int64(tick),
		Time:    time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(tick) * time.Second),
	}
	info, err := lockbox.NewBlockInfo(header, ChainID, nil)
	if err != nil {
		panic(err)
	}
	return info
}
