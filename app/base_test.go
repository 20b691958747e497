package app

import (
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/orm"
	"github.com/iov-one/lockbox/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

type genesisWriter struct{}

func (genesisWriter) FromGenesis(opts lockbox.Options, db lockbox.KVStore) error {
	var value string
	if err := opts.ReadOptions("greeting", &value); err != nil {
		return err
	}
	return db.Set([]byte("greeting"), []byte(value))
}

func decodeWriteTx(raw []byte) (lockbox.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty tx")
	}
	if raw[0] == 0xFF {
		panic("decoder panic")
	}
	return &lockboxtest.Tx{Msg: &lockboxtest.Msg{RoutePath: "test/write", Serialized: raw}}, nil
}

func newTestApp(t testing.TB, h lockbox.Handler) BaseApp {
	t.Helper()
	qr := lockbox.NewQueryRouter()
	orm.RegisterQuery(qr)
	sa := NewStoreApp("test-app", iavl.MockCommitStore(), qr).WithInit(genesisWriter{})

	rt := NewRouter()
	rt.Handle(&lockboxtest.Msg{RoutePath: "test/write"}, h)
	return NewBaseApp(sa, decodeWriteTx, rt, false)
}

func TestBaseAppLifecycle(t *testing.T) {
	h := lockboxtest.WriteHandler{Key: []byte("written"), Value: []byte("yes")}
	app := newTestApp(t, h)

	// no chain id before genesis
	res := app.DeliverTx([]byte("data"))
	assert.NotEqual(t, uint32(0), res.Code)

	app.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain",
		AppStateBytes: []byte(`{"greeting": "hello"}`),
	})
	assert.Equal(t, "test-chain", app.GetChainID())

	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, ChainID: "test-chain"}})
	check := app.CheckTx([]byte("data"))
	require.Equal(t, uint32(0), check.Code, check.Log)
	deliver := app.DeliverTx([]byte("data"))
	require.Equal(t, uint32(0), deliver.Code, deliver.Log)

	// decoder errors and panics are reported as failed transactions
	bad := app.DeliverTx(nil)
	assert.Equal(t, errors.ErrInvalidInput.ABCICode(), bad.Code)
	bad = app.DeliverTx([]byte{0xFF})
	assert.Equal(t, errors.ErrPanic.ABCICode(), bad.Code)
	huge := app.CheckTx(make([]byte, MaxTxSize+1))
	assert.Equal(t, errors.ErrInvalidInput.ABCICode(), huge.Code)

	commit := app.Commit()
	assert.NotEmpty(t, commit.Data)

	info := app.Info(abci.RequestInfo{})
	assert.EqualValues(t, 1, info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)
	assert.Equal(t, "test-app", info.Data)

	abciStore := NewABCIStore(app)
	val, err := abciStore.Get([]byte("written"))
	require.NoError(t, err)
	assert.Equal(t, []byte("yes"), val)
	val, err = abciStore.Get([]byte("greeting"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), val)
	ok, err := abciStore.Has([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	q := app.Query(abci.RequestQuery{Path: "/nope"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), q.Code)

	// genesis can be loaded only once
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "test-chain", AppStateBytes: []byte(`{}`)})
	})
}

func TestBaseAppDeliverError(t *testing.T) {
	h := lockboxtest.WriteHandler{Key: []byte("written"), Value: []byte("yes"), Err: errors.ErrUnauthorized}
	app := newTestApp(t, h)
	app.InitChain(abci.RequestInitChain{ChainId: "test-chain", AppStateBytes: []byte(`{}`)})
	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})

	res := app.DeliverTx([]byte("data"))
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)
}

func TestIsPrefixRange(t *testing.T) {
	assert.True(t, isPrefixRange(nil, nil))
	assert.True(t, isPrefixRange([]byte("ab"), []byte("ac")))
	assert.True(t, isPrefixRange([]byte{'a', 0xFF}, []byte("b")))
	assert.True(t, isPrefixRange([]byte{0xFF}, nil))
	assert.False(t, isPrefixRange([]byte("ab"), []byte("zz")))
	assert.False(t, isPrefixRange(nil, []byte("a")))
}

func TestBlocksMustBeContiguous(t *testing.T) {
	app := newTestApp(t, lockboxtest.WriteHandler{Key: []byte("k"), Value: []byte("v")})
	app.InitChain(abci.RequestInitChain{ChainId: "test-chain", AppStateBytes: []byte(`{}`)})

	assert.Panics(t, func() {
		app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2}})
	}, "first block must have height 1")

	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	app.Commit()

	assert.Panics(t, func() {
		app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	}, "height cannot repeat")
	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2}})
}

func TestSaveChainID(t *testing.T) {
	db := iavl.MockCommitStore().CacheWrap()

	id, err := loadChainID(db)
	require.NoError(t, err)
	assert.Equal(t, "", id)

	err = saveChainID(db, "bad id")
	assert.True(t, errors.ErrInvalidInput.Is(err))

	require.NoError(t, saveChainID(db, "lockbox-main"))
	id, err = loadChainID(db)
	require.NoError(t, err)
	assert.Equal(t, "lockbox-main", id)

	err = saveChainID(db, "lockbox-other")
	assert.True(t, errors.ErrCannotBeModified.Is(err))
}
