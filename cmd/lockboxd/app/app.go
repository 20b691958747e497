/*
Package app links together all the various components
to construct the lockbox node.
*/
package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/app"
	"github.com/iov-one/lockbox/orm"
	"github.com/iov-one/lockbox/store/iavl"
	"github.com/iov-one/lockbox/x"
	"github.com/iov-one/lockbox/x/alloc"
	"github.com/iov-one/lockbox/x/asset"
	"github.com/iov-one/lockbox/x/escrow"
	"github.com/iov-one/lockbox/x/sigs"
	"github.com/iov-one/lockbox/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		// on DeliverTx, a failing message leaves no trace but the
		// incremented sequence of its signers
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a default router, dispatching asset and escrow messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	allocs := alloc.NewController()
	assets := asset.NewController(allocs)
	asset.RegisterRoutes(r, authFn, assets)
	escrow.RegisterRoutes(r, authFn, assets, allocs)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/escrows", "/assets", "/holdings", "/allocations",
// "/credits", "/auth" and "/"
func QueryRouter() lockbox.QueryRouter {
	r := lockbox.NewQueryRouter()
	r.RegisterAll(
		escrow.RegisterQuery,
		asset.RegisterQuery,
		alloc.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers in the order they must run.
// Assets pay for their storage, so credits are funded first.
func Initializers() lockbox.Initializer {
	return lockbox.ChainInitializers(
		alloc.Initializer{},
		asset.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() lockbox.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Application constructs the lockbox ABCI application on top of given
// store.
func Application(name string, kv lockbox.CommitKVStore, logger log.Logger, debug bool) app.BaseApp {
	store := app.NewStoreApp(name, kv, QueryRouter()).
		WithInit(Initializers()).
		WithLogger(logger)
	return app.NewBaseApp(store, TxDecoder, Stack(), debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (lockbox.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("invalid database name: %s", path)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
