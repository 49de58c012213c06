package store

import "github.com/iov-one/quickex"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = quickex.ReadOnlyKVStore
	SetDeleter       = quickex.SetDeleter
	KVStore          = quickex.KVStore
	Batch            = quickex.Batch
	Iterator         = quickex.Iterator
	CacheableKVStore = quickex.CacheableKVStore
	KVCacheWrap      = quickex.KVCacheWrap
	CommitKVStore    = quickex.CommitKVStore
	CommitID         = quickex.CommitID
)

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}
