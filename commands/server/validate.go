package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/store"
)

// ValidateGenesis dry-runs every given genesis file: the chain id must be
// one the node accepts at InitChain and the app_state must initialize
// cleanly. The first rejected file is reported.
func ValidateGenesis(ini lockbox.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

type genesisFile struct {
	ChainID string          `json:"chain_id"`
	State   lockbox.Options `json:"app_state"`
}

func validateGenesis(ini lockbox.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis file")
	}
	var genesis genesisFile
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "cannot JSON deserialize genesis")
	}

	if !lockbox.IsValidChainID(genesis.ChainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", genesis.ChainID)
	}
	if len(genesis.State) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}

	// The result is discarded.
	db := store.MemStore()
	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
