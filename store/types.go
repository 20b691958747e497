package store

import "github.com/iov-one/lockbox"

// Storage types are aliased here for shorter names everywhere.

type (
	ReadOnlyKVStore  = lockbox.ReadOnlyKVStore
	SetDeleter       = lockbox.SetDeleter
	KVStore          = lockbox.KVStore
	Batch            = lockbox.Batch
	Iterator         = lockbox.Iterator
	CacheableKVStore = lockbox.CacheableKVStore
	KVCacheWrap      = lockbox.KVCacheWrap
	CommitKVStore    = lockbox.CommitKVStore
	CommitID         = lockbox.CommitID
	Model            = lockbox.Model
)

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return lockbox.Pair(key, value)
}
