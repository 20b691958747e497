package store

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite holds checks shared by every CacheableKVStore. A backend test
// only supplies the constructor.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns an empty store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite running against stores built by constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet walks a store through the life of a single deal: the cache of a
// delivered transaction is written, the cache of a failed one discarded.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	deal, vault, fee := []byte("escrow:1"), []byte("holding:vault"), []byte("holding:fee")

	s.AssertGetHas(t, base, deal, nil, false)
	require.NoError(t, base.Set(deal, []byte("open")))

	deposit := base.CacheWrap()
	s.AssertGetHas(t, deposit, deal, []byte("open"), true)
	require.NoError(t, deposit.Set(vault, []byte("100")))
	s.AssertGetHas(t, deposit, vault, []byte("100"), true)
	s.AssertGetHas(t, base, vault, nil, false)
	require.NoError(t, deposit.Write())
	s.AssertGetHas(t, base, vault, []byte("100"), true)

	failed := base.CacheWrap()
	require.NoError(t, failed.Set(fee, []byte("1")))
	require.NoError(t, failed.Delete(vault))
	failed.Discard()
	s.AssertGetHas(t, base, fee, nil, false)
	s.AssertGetHas(t, base, vault, []byte("100"), true)

	take := base.CacheWrap()
	require.NoError(t, take.Delete(deal))
	require.NoError(t, take.Delete(vault))
	require.NoError(t, take.Write())
	s.AssertGetHas(t, base, deal, nil, false)
	s.AssertGetHas(t, base, vault, nil, false)
}

// CacheConflicts checks that a cache shadows its parent for overwritten and
// deleted keys, and that writing it makes the parent agree.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	k := func(i int) []byte { return []byte(fmt.Sprintf("key-%02d", i)) }
	v := func(val string) []byte { return []byte(val) }

	cases := map[string]struct {
		parent []Op
		child  []Op
		// Key is what we query, Value is what we expect. A nil value
		// means the key must be absent.
		beforeWrite []Model
		afterWrite  []Model
	}{
		"overwrite one, delete another, add a third": {
			parent:      []Op{SetOp(k(1), v("a")), SetOp(k(2), v("b"))},
			child:       []Op{SetOp(k(1), v("A")), DelOp(k(2)), SetOp(k(3), v("c"))},
			beforeWrite: []Model{Pair(k(1), v("a")), Pair(k(2), v("b")), Pair(k(3), nil)},
			afterWrite:  []Model{Pair(k(1), v("A")), Pair(k(2), nil), Pair(k(3), v("c"))},
		},
		"delete then set again": {
			parent:      []Op{SetOp(k(4), v("d"))},
			child:       []Op{DelOp(k(4)), SetOp(k(4), v("D"))},
			beforeWrite: []Model{Pair(k(4), v("d"))},
			afterWrite:  []Model{Pair(k(4), v("D"))},
		},
		"set then delete leaves nothing": {
			child:       []Op{SetOp(k(5), v("e")), DelOp(k(5))},
			beforeWrite: []Model{Pair(k(5), nil)},
			afterWrite:  []Model{Pair(k(5), nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			applyOps(t, parent, tc.parent)
			child := parent.CacheWrap()
			applyOps(t, child, tc.child)

			for _, q := range tc.beforeWrite {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.afterWrite {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}
			require.NoError(t, child.Write())
			for _, q := range tc.afterWrite {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// FuzzIterator checks that iterating a cache merges its own writes and
// deletes with the parent content, for random keys, in both directions and
// with every kind of bound.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const size = 40

	parentSet := randModels(size, 8, 24)
	childSet := randModels(size, 8, 24)
	merged := sortModels(append(append([]Model(nil), parentSet...), childSet...))
	onlyChild := sortModels(childSet)

	cases := map[string]struct {
		parent []Op
		child  []Op
		want   []Model
	}{
		"child writes over empty parent": {
			child: setOps(childSet),
			want:  onlyChild,
		},
		"child writes merged with parent": {
			parent: setOps(parentSet),
			child:  setOps(childSet),
			want:   merged,
		},
		"child deletes hide parent": {
			parent: setOps(parentSet),
			child:  append(setOps(childSet), delOps(parentSet)...),
			want:   onlyChild,
		},
		"child deletes everything": {
			parent: setOps(parentSet),
			child:  delOps(parentSet),
			want:   nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			applyOps(t, base, tc.parent)
			child := base.CacheWrap()
			applyOps(t, child, tc.child)

			for _, r := range boundsFor(tc.want) {
				it, err := child.Iterator(r.start, r.end)
				require.NoError(t, err)
				VerifyIterator(t, tc.want[r.from:r.to], it)

				it, err = child.ReverseIterator(r.start, r.end)
				require.NoError(t, err)
				VerifyIterator(t, reverse(tc.want[r.from:r.to]), it)
			}
		})
	}
}

// AssertGetHas checks that Get returns val and Has returns has for key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

// VerifyIterator consumes the iterator and compares it with expected models.
func VerifyIterator(t testing.TB, expected []Model, iter Iterator) {
	t.Helper()
	defer iter.Close()
	for i, want := range expected {
		require.True(t, iter.Valid(), "iterator ended at %d", i)
		if !bytes.Equal(want.Key, iter.Key()) {
			t.Fatalf("want key %X at %d, got %X", want.Key, i, iter.Key())
		}
		assert.Equal(t, want.Value, iter.Value())
		require.NoError(t, iter.Next())
	}
	assert.False(t, iter.Valid(), "iterator has more items")
}

// keyRange is an iterator domain and the slice of sorted models it covers.
type keyRange struct {
	start, end []byte
	from, to   int
}

// boundsFor returns open, half open and closed ranges over sorted models.
func boundsFor(sorted []Model) []keyRange {
	n := len(sorted)
	ranges := []keyRange{{nil, nil, 0, n}}
	if n < 8 {
		return ranges
	}
	lo, hi := n/4, 3*n/4
	return append(ranges,
		keyRange{sorted[lo].Key, nil, lo, n},
		keyRange{nil, sorted[hi].Key, 0, hi},
		keyRange{sorted[lo].Key, sorted[hi].Key, lo, hi},
	)
}

func applyOps(t testing.TB, kv SetDeleter, ops []Op) {
	t.Helper()
	for _, op := range ops {
		require.NoError(t, op.Apply(kv))
	}
}

func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := range models {
		models[i] = Pair(randBytes(keySize), randBytes(valueSize))
	}
	return models
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	if _, err := rand.Read(res); err != nil {
		panic(err)
	}
	return res
}

func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []Model) []Model {
	res := append([]Model(nil), models...)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func setOps(ms []Model) []Op {
	ops := make([]Op, len(ms))
	for i, m := range ms {
		ops[i] = SetOp(m.Key, m.Value)
	}
	return ops
}

func delOps(ms []Model) []Op {
	ops := make([]Op, len(ms))
	for i, m := range ms {
		ops[i] = DelOp(m.Key)
	}
	return ops
}
