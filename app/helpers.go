package app

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore, so that
// buckets can be used to read application state from the outside.
type ABCIStore struct {
	app abci.Application
}

var _ lockbox.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if query.Code != 0 {
		return nil, errors.ABCIError(query.Code, query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	switch len(value.Results) {
	case 0:
		return nil, nil
	case 1:
		return value.Results[0], nil
	default:
		return nil, errors.Wrap(errors.ErrInvalidState, "more than one result for a key query")
	}
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	val, err := a.Get(key)
	return len(val) > 0, err
}

// Iterator only supports listing all entries or those of a single prefix,
// as this is what the query interface provides.
func (a *ABCIStore) Iterator(start, end []byte) (lockbox.Iterator, error) {
	models, err := a.prefixQuery(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator loads the same entries as Iterator and plays them
// backwards.
func (a *ABCIStore) ReverseIterator(start, end []byte) (lockbox.Iterator, error) {
	models, err := a.prefixQuery(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) prefixQuery(start, end []byte) ([]lockbox.Model, error) {
	if !isPrefixRange(start, end) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "only prefix ranges are supported")
	}
	query := a.app.Query(abci.RequestQuery{
		Path: "/?" + lockbox.PrefixQueryMod,
		Data: start,
	})
	if query.Code != 0 {
		return nil, errors.ABCIError(query.Code, query.Log)
	}
	return toModels(query.Key, query.Value)
}

// isPrefixRange returns true if [start, end) covers exactly all keys with
// the prefix start.
func isPrefixRange(start, end []byte) bool {
	if start == nil {
		return end == nil
	}
	want := append([]byte(nil), start...)
	for i := len(want) - 1; i >= 0; i-- {
		if want[i] < 0xFF {
			want[i]++
			return string(want[:i+1]) == string(end)
		}
	}
	return end == nil
}

func toModels(keys, values []byte) ([]lockbox.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
