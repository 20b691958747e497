package asset

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/alloc"
)

const optKey = "asset"

// GenesisAsset declares an asset created at genesis. Its storage is paid by
// the authority.
type GenesisAsset struct {
	Authority lockbox.Address `json:"authority"`
	Seed      uint64          `json:"seed"`
	Decimals  uint8           `json:"decimals"`
}

// GenesisHolding declares a funded holding created at genesis. Its storage
// is paid by the owner.
type GenesisHolding struct {
	Owner  lockbox.Address `json:"owner"`
	Asset  lockbox.Address `json:"asset"`
	Amount uint64          `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file. It must run after the alloc initializer.
type Initializer struct{}

var _ lockbox.Initializer = Initializer{}

func (Initializer) FromGenesis(opts lockbox.Options, db lockbox.KVStore) error {
	var state struct {
		Assets   []GenesisAsset   `json:"assets"`
		Holdings []GenesisHolding `json:"holdings"`
	}
	if err := opts.ReadOptions(optKey, &state); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	ctrl := NewController(alloc.NewController())
	for i, a := range state.Assets {
		if a.Decimals > MaxDecimals {
			return errors.Wrapf(errors.ErrInvalidInput, "asset %d: decimals", i)
		}
		if _, err := ctrl.CreateAsset(db, a.Authority, a.Authority, a.Seed, a.Decimals); err != nil {
			return errors.Wrapf(err, "asset %d", i)
		}
	}
	for i, h := range state.Holdings {
		addr, _, err := ctrl.EnsureHolding(db, h.Owner, h.Owner, h.Asset)
		if err != nil {
			return errors.Wrapf(err, "holding %d", i)
		}
		if h.Amount == 0 {
			continue
		}
		if err := ctrl.issue(db, addr, h.Amount); err != nil {
			return errors.Wrapf(err, "holding %d", i)
		}
	}
	return nil
}
