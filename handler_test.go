package lockbox_test

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	opts := lockbox.Options{
		"alloc": json.RawMessage(`{"base_reserve": 10}`),
		"bad":   json.RawMessage(`{"base_reserve": "ten"}`),
	}

	var conf struct {
		BaseReserve int64 `json:"base_reserve"`
	}
	require.NoError(t, opts.ReadOptions("alloc", &conf))
	assert.Equal(t, int64(10), conf.BaseReserve)

	conf.BaseReserve = 3
	require.NoError(t, opts.ReadOptions("missing", &conf))
	assert.Equal(t, int64(3), conf.BaseReserve, "missing key must not modify destination")

	assert.Error(t, opts.ReadOptions("bad", &conf))
}

type recordingInit struct {
	name string
	log  *[]string
	err  error
}

func (r recordingInit) FromGenesis(opts lockbox.Options, db lockbox.KVStore) error {
	*r.log = append(*r.log, r.name)
	return r.err
}

func TestChainInitializers(t *testing.T) {
	var log []string
	db := store.MemStore()

	ok := lockbox.ChainInitializers(
		recordingInit{name: "alloc", log: &log},
		recordingInit{name: "asset", log: &log},
	)
	require.NoError(t, ok.FromGenesis(nil, db))
	assert.Equal(t, []string{"alloc", "asset"}, log)

	log = nil
	failing := lockbox.ChainInitializers(
		recordingInit{name: "alloc", log: &log, err: errors.ErrInvalidState},
		recordingInit{name: "asset", log: &log},
	)
	err := failing.FromGenesis(nil, db)
	assert.True(t, errors.ErrInvalidState.Is(err))
	assert.Equal(t, []string{"alloc"}, log, "initialization must stop at first failure")
}
