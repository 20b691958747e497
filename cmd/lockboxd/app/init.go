package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/x/alloc"
	"github.com/iov-one/lockbox/x/asset"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// devCredits funds the storage of the development account.
	devCredits = 1000000
	// devSupply is minted for the development account in both demo assets.
	devSupply = 1000000
)

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode. The account owns the authority of two
// demo assets and a funded holding in each.
//
// An address can be passed as the first argument, otherwise a new key is
// generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr lockbox.Address
	if len(args) > 0 {
		if err := addr.UnmarshalJSON([]byte(fmt.Sprintf("%q", args[0]))); err != nil {
			return nil, err
		}
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	var holdings []asset.GenesisHolding
	for seed := uint64(1); seed <= 2; seed++ {
		assetID, err := asset.AssetAddress(addr, seed)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, asset.GenesisHolding{Owner: addr, Asset: assetID, Amount: devSupply})
	}

	opts := map[string]interface{}{
		"conf": map[string]interface{}{
			"alloc": alloc.Configuration{BaseReserve: 10, ByteRate: 1},
		},
		"alloc": []alloc.GenesisCredits{
			{Address: addr, Amount: devCredits},
		},
		"asset": map[string]interface{}{
			"assets": []asset.GenesisAsset{
				{Authority: addr, Seed: 1, Decimals: 6},
				{Authority: addr, Seed: 2, Decimals: 9},
			},
			"holdings": holdings,
		},
	}
	return json.MarshalIndent(opts, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "lockbox.db")
	}
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	return Application("lockbox", kv, logger, debug), nil
}

type output struct {
	Address lockbox.Address `json:"address"`
	Bech32  string          `json:"bech32"`
	Secret  string          `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give credits and assets to this address and
// import the secret in a client to use them
func GenerateCoinKey() (lockbox.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	addr := privKey.PublicKey().Address()
	b32, err := addr.Bech32(lockbox.DefaultBech32Prefix)
	if err != nil {
		return nil, "", err
	}

	out := output{Address: addr, Bech32: b32, Secret: hex.EncodeToString(privKey.Ed25519)}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(keys), nil
}
