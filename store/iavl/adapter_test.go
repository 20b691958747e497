package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit, cleanup := makeCommitStore()
	return commit.Adapter(), cleanup
}

func makeCommitStore() (CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	commit, err := NewCommitStore(tmpDir, "base")
	if err != nil {
		panic(err)
	}
	return commit, func() { os.RemoveAll(tmpDir) }
}

func TestCacheGetSet(t *testing.T) {
	store.NewTestSuite(makeBase).GetSet(t)
}

func TestCacheConflicts(t *testing.T) {
	store.NewTestSuite(makeBase).CacheConflicts(t)
}

func TestFuzzCacheIterator(t *testing.T) {
	store.NewTestSuite(makeBase).FuzzIterator(t)
}

func TestCommitOverwrite(t *testing.T) {
	commit, cleanup := makeCommitStore()
	defer cleanup()
	commit.numHistory = 1
	suite := store.NewTestSuite(makeBase)

	id, err := commit.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), id.Version)
	assert.Empty(t, id.Hash)

	k1, k2, k3 := []byte("escrow"), []byte("vault"), []byte("holding")

	parent := commit.CacheWrap()
	require.NoError(t, parent.Set(k1, []byte("open")))
	require.NoError(t, parent.Set(k2, []byte("100")))
	require.NoError(t, parent.Write())
	id, err = commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	child := commit.CacheWrap()
	require.NoError(t, child.Set(k1, []byte("taken")))
	require.NoError(t, child.Delete(k2))
	require.NoError(t, child.Set(k3, []byte("100")))

	// A parallel cache wrap sees only the written state.
	side := commit.CacheWrap()
	suite.AssertGetHas(t, side, k1, []byte("open"), true)
	suite.AssertGetHas(t, side, k2, []byte("100"), true)
	suite.AssertGetHas(t, side, k3, nil, false)

	require.NoError(t, child.Write())
	suite.AssertGetHas(t, side, k1, []byte("taken"), true)
	suite.AssertGetHas(t, side, k2, nil, false)

	// Get on the commit store reads the last committed version only.
	val, err := commit.Get(k1)
	require.NoError(t, err)
	assert.Equal(t, []byte("open"), val)

	id2, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2.Version)
	assert.NotEqual(t, id.Hash, id2.Hash)

	val, err = commit.Get(k1)
	require.NoError(t, err)
	assert.Equal(t, []byte("taken"), val)
}

func TestReloadFromDisk(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-reload-")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	commit, err := NewCommitStore(tmpDir, "state")
	require.NoError(t, err)
	cache := commit.CacheWrap()
	require.NoError(t, cache.Set([]byte("maker"), []byte("credits")))
	require.NoError(t, cache.Write())
	want, err := commit.Commit()
	require.NoError(t, err)

	// goleveldb keeps an exclusive lock, so reopen through the same tree.
	require.NoError(t, commit.LoadLatestVersion())
	got, err := commit.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMockCommitStore(t *testing.T) {
	commit := MockCommitStore()
	require.NoError(t, commit.LoadLatestVersion())

	cache := commit.CacheWrap()
	require.NoError(t, cache.Set([]byte("a"), []byte("1")))
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Write())
	_, err := commit.Commit()
	require.NoError(t, err)

	it, err := commit.Adapter().ReverseIterator(nil, nil)
	require.NoError(t, err)
	store.VerifyIterator(t, []store.Model{
		store.Pair([]byte("b"), []byte("2")),
		store.Pair([]byte("a"), []byte("1")),
	}, it)
}
