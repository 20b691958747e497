package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendEntries returns a snapshot of all cached entries within [start, end)
// in ascending key order. A nil bound is open.
func ascendEntries(bt *btree.BTree, start, end []byte) []entry {
	var res []entry
	collect := func(i btree.Item) bool {
		res = append(res, i.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	return res
}

// descendEntries returns the same entries as ascendEntries, in descending
// key order.
func descendEntries(bt *btree.BTree, start, end []byte) []entry {
	res := ascendEntries(bt, start, end)
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res
}

// mergeIterator combines the cached entries with the parent iterator.
// Cached entries win over parent values with the same key and deleted
// entries hide them.
type mergeIterator struct {
	cached    []entry
	parent    Iterator
	ascending bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []entry, parent Iterator, ascending bool) (*mergeIterator, error) {
	it := &mergeIterator{
		cached:    cached,
		parent:    parent,
		ascending: ascending,
	}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// source marks where the current item comes from
type source int32

const (
	none source = iota
	fromCache
	fromParent
	fromBoth
)

func (it *mergeIterator) current() source {
	cacheOK := len(it.cached) > 0
	parentOK := it.parent != nil && it.parent.Valid()
	switch {
	case !cacheOK && !parentOK:
		return none
	case !parentOK:
		return fromCache
	case !cacheOK:
		return fromParent
	}
	cmp := bytes.Compare(it.cached[0].key, it.parent.Key())
	if !it.ascending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return fromCache
	case cmp > 0:
		return fromParent
	default:
		return fromBoth
	}
}

// Valid implements Iterator and returns true iff it can be read
func (it *mergeIterator) Valid() bool {
	return it.current() != none
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (it *mergeIterator) Next() error {
	if err := it.advance(it.current()); err != nil {
		return err
	}
	return it.skipDeleted()
}

func (it *mergeIterator) advance(src source) error {
	switch src {
	case fromCache:
		it.cached = it.cached[1:]
	case fromParent:
		return it.parent.Next()
	case fromBoth:
		it.cached = it.cached[1:]
		return it.parent.Next()
	default:
		panic("advanced past the end")
	}
	return nil
}

// skipDeleted moves over all tombstones at the head of the cache together
// with the parent values they hide.
func (it *mergeIterator) skipDeleted() error {
	for {
		src := it.current()
		if src != fromCache && src != fromBoth {
			return nil
		}
		if !it.cached[0].deleted {
			return nil
		}
		if err := it.advance(src); err != nil {
			return err
		}
	}
}

// Key returns the key of the cursor.
func (it *mergeIterator) Key() []byte {
	switch it.current() {
	case fromCache, fromBoth:
		return it.cached[0].key
	case fromParent:
		return it.parent.Key()
	default:
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (it *mergeIterator) Value() []byte {
	switch it.current() {
	case fromCache, fromBoth:
		return it.cached[0].value
	case fromParent:
		return it.parent.Value()
	default:
		panic("advanced past the end")
	}
}

// Close releases the Iterator.
func (it *mergeIterator) Close() {
	if it.parent != nil {
		it.parent.Close()
	}
	it.cached = nil
}
