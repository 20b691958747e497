package alloc

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/gconf"
)

const optKey = "alloc"

// GenesisCredits is used to parse the json from genesis file.
type GenesisCredits struct {
	Address lockbox.Address `json:"address"`
	Amount  uint64          `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ lockbox.Initializer = Initializer{}

// FromGenesis stores the storage price and funds the initial credit
// balances.
func (Initializer) FromGenesis(opts lockbox.Options, db lockbox.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, packageName, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var accts []GenesisCredits
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	ctrl := NewController()
	for i, a := range accts {
		if err := ctrl.Credit(db, a.Address, a.Amount); err != nil {
			return errors.Wrapf(err, "credits %d", i)
		}
	}
	return nil
}
