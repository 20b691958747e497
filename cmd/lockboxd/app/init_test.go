package app

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/store"
	"github.com/iov-one/lockbox/x/alloc"
	"github.com/iov-one/lockbox/x/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestGenInitOptions(t *testing.T) {
	addr := lockboxtest.NewAddress()
	raw, err := GenInitOptions([]string{addr.String()})
	require.NoError(t, err)

	var opts lockbox.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	require.NoError(t, Initializers().FromGenesis(opts, db))

	assets := asset.NewController(alloc.NewController())
	for seed := uint64(1); seed <= 2; seed++ {
		assetID, err := asset.AssetAddress(addr, seed)
		require.NoError(t, err)
		a, err := assets.Asset(db, assetID)
		require.NoError(t, err)
		assert.Equal(t, addr, a.Authority)

		holding, err := asset.HoldingAddress(addr, assetID)
		require.NoError(t, err)
		h, err := assets.Holding(db, holding)
		require.NoError(t, err)
		assert.Equal(t, uint64(devSupply), h.Amount)
	}

	_, err = GenInitOptions([]string{"not an address"})
	assert.Error(t, err)
}

func TestGenerateCoinKey(t *testing.T) {
	addr, keys, err := GenerateCoinKey()
	require.NoError(t, err)
	require.NoError(t, addr.Validate())

	var out struct {
		Address lockbox.Address `json:"address"`
		Bech32  string          `json:"bech32"`
	}
	require.NoError(t, json.Unmarshal([]byte(keys), &out))
	assert.Equal(t, addr, out.Address)

	var fromBech lockbox.Address
	require.NoError(t, fromBech.UnmarshalJSON([]byte(`"bech32:`+out.Bech32+`"`)))
	assert.Equal(t, addr, fromBech)
}

func TestGenerateApp(t *testing.T) {
	a, err := GenerateApp("", log.NewNopLogger(), false)
	require.NoError(t, err)
	assert.NotNil(t, a)
}
