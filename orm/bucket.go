package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a prefixed subspace of the DB holding models of one type.
type Bucket struct {
	name   string
	prefix []byte
	model  reflect.Type
}

var _ lockbox.QueryHandler = Bucket{}

// NewBucket creates a bucket storing models of the same type as the given
// one. The name is used as the db key prefix and must be unique.
func NewBucket(name string, m Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		model:  reflect.TypeOf(m),
	}
}

// Name returns the bucket name.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
// A new array is allocated so that consecutive calls never share memory.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	copy(out, b.prefix)
	copy(out[len(b.prefix):], key)
	return out
}

// Has returns true if an entity with given key exists.
func (b Bucket) Has(db lockbox.ReadOnlyKVStore, key []byte) (bool, error) {
	if len(key) == 0 {
		return false, errors.Wrap(errors.ErrEmpty, "key")
	}
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// One loads the entity stored under given key into dest. It returns
// ErrNotFound if the entity does not exist and ErrInvalidType if dest is not
// of the bucket model type.
func (b Bucket) One(db lockbox.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := b.checkType(dest); err != nil {
		return err
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "%s %X", b.name, key)
	}
	return nil
}

// Put validates and saves the model under given key, overwriting any
// previous value.
func (b Bucket) Put(db lockbox.KVStore, key []byte, m Model) error {
	if err := b.checkType(m); err != nil {
		return err
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal")
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Create works like Put but fails with ErrDuplicate if the key is taken.
func (b Bucket) Create(db lockbox.KVStore, key []byte, m Model) error {
	switch ok, err := b.Has(db, key); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(errors.ErrDuplicate, "%s %X", b.name, key)
	}
	return b.Put(db, key, m)
}

// Delete removes the entity stored under given key. It returns ErrNotFound
// if there is nothing to delete.
func (b Bucket) Delete(db lockbox.KVStore, key []byte) error {
	switch ok, err := b.Has(db, key); {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := db.Delete(b.DBKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Register exposes this bucket to the query router. The path defaults to
// the bucket name.
func (b Bucket) Register(name string, r lockbox.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db lockbox.ReadOnlyKVStore, mod string, data []byte) ([]lockbox.Model, error) {
	switch mod {
	case lockbox.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []lockbox.Model{lockbox.Pair(key, value)}, nil
	case lockbox.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.ErrInvalidInput.Newf("unknown query mod: %q", mod)
	}
}

func (b Bucket) checkType(m Model) error {
	if reflect.TypeOf(m) != b.model {
		return errors.Wrapf(errors.ErrInvalidType, "%s bucket stores %s, got %T", b.name, b.model, m)
	}
	return nil
}
