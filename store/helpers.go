package store

import (
	"github.com/iov-one/lockbox/errors"
)

// SliceIterator walks models that are already loaded, in slice order.
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool { return s.idx < len(s.data) }

func (s *SliceIterator) Next() error {
	if !s.Valid() {
		return errors.Wrap(errors.ErrHuman, "next on exhausted slice iterator")
	}
	s.idx++
	return nil
}

func (s *SliceIterator) Key() []byte { return s.data[s.idx].Key }

func (s *SliceIterator) Value() []byte { return s.data[s.idx].Value }

// Close drops the models. The iterator is invalid afterwards.
func (s *SliceIterator) Close() { s.data = nil }

// EmptyKVStore reads as empty and ignores writes. It is the bottom layer of
// MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error) { return false, nil }
func (EmptyKVStore) Set(_, _ []byte) error { return nil }
func (EmptyKVStore) Delete([]byte) error { return nil }
func (e EmptyKVStore) NewBatch() Batch { return NewNonAtomicBatch(e) }

func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// Op is a single pending write: a set, or a delete when del is true.
type Op struct {
	key   []byte
	value []byte
	del   bool
}

// SetOp returns an operation writing value under key.
func SetOp(key, value []byte) Op { return Op{key: key, value: value} }

// DelOp returns an operation removing key.
func DelOp(key []byte) Op { return Op{key: key, del: true} }

// Apply performs the operation on out.
func (o Op) Apply(out SetDeleter) error {
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch queues operations and replays them in order on Write. A
// failing operation leaves the earlier ones applied, so it only backs
// in-memory caches and never a persistent store.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write replays the queued operations and empties the queue. On error the
// queue is kept.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return errors.Wrap(err, "batch write")
		}
	}
	b.ops = nil
	return nil
}
