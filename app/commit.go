package app

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// CommitStore keeps the committed ledger together with the two caches
// transactions run against: one for DeliverTx, flushed on Commit, and one for
// CheckTx, dropped on Commit.
//
// Committed versions are block heights, which are also the ticks of the
// escrow clock. A version can only ever advance by one.
type CommitStore struct {
	committed lockbox.CommitKVStore
	deliver   lockbox.KVCacheWrap
	check     lockbox.KVCacheWrap

	// version of the last commit, 0 before the first block
	version int64
}

// NewCommitStore loads the latest version of the ledger or panics.
func NewCommitStore(store lockbox.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	id, err := store.LatestVersion()
	if err != nil {
		panic(err)
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
		version:   id.Version,
	}
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (lockbox.CommitID, error) {
	return cs.committed.LatestVersion()
}

// NextHeight returns the only height the next block may have.
func (cs *CommitStore) NextHeight() int64 {
	return cs.version + 1
}

// Commit writes all delivered transactions to the ledger and starts fresh
// caches for the next block.
func (cs *CommitStore) Commit() (lockbox.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return lockbox.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	if id.Version != cs.NextHeight() {
		return id, errors.Wrapf(errors.ErrInvalidState,
			"ledger jumped from version %d to %d", cs.version, id.Version)
	}
	cs.version = id.Version

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return id, nil
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() lockbox.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() lockbox.CacheableKVStore {
	return cs.deliver
}

// Ledger metadata lives under the "_lb:" prefix, which no bucket uses.
const chainIDKey = "_lb:chainID"

// loadChainID returns the chain id written at genesis, or an empty string
// before InitChain.
func loadChainID(kv lockbox.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID writes the chain id. It can be set only once.
func saveChainID(kv lockbox.KVStore, chainID string) error {
	if !lockbox.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id: %q", chainID)
	}
	switch prev, err := loadChainID(kv); {
	case err != nil:
		return err
	case prev != "":
		return errors.Wrapf(errors.ErrCannotBeModified, "chain id already set to %q", prev)
	}
	if err := kv.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
