package orm

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr lockbox.Iterator) ([]lockbox.Model, error) {
	defer itr.Close()

	var res []lockbox.Model
	for itr.Valid() {
		res = append(res, lockbox.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return res, nil
}

func queryPrefix(db lockbox.ReadOnlyKVStore, prefix []byte) ([]lockbox.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRange turns a prefix into a (start, end) range. The end is the
// smallest key that does not start with the prefix, or nil if there is none.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	start := append([]byte(nil), prefix...)
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return start, end[:i+1]
		}
	}
	return start, nil
}

// RegisterQuery exposes raw access to the whole store under "/".
func RegisterQuery(qr lockbox.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db lockbox.ReadOnlyKVStore, mod string, data []byte) ([]lockbox.Model, error) {
	switch mod {
	case lockbox.KeyQueryMod:
		if len(data) == 0 {
			return nil, errors.Wrap(errors.ErrEmpty, "key")
		}
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []lockbox.Model{lockbox.Pair(data, value)}, nil
	case lockbox.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.ErrInvalidInput.Newf("unknown query mod: %q", mod)
	}
}
