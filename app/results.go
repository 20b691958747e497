package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// resultsField is the wire tag of the repeated bytes field holding the
// results, so that a ResultSet is a valid protobuf message.
const resultsField = 1<<3 | 2

// ResultSet contains a list of keys or values
type ResultSet struct {
	Results [][]byte
}

var _ lockbox.Persistent = (*ResultSet)(nil)

func (r *ResultSet) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	for _, res := range r.Results {
		if err := b.EncodeVarint(resultsField); err != nil {
			return nil, err
		}
		if err := b.EncodeRawBytes(res); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	var results [][]byte
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInvalidInput, "malformed field tag")
		}
		if tag != resultsField {
			return errors.Wrapf(errors.ErrInvalidInput, "unexpected field %d", tag)
		}
		raw = raw[n:]
		size, n := proto.DecodeVarint(raw)
		if n == 0 || size > uint64(len(raw)-n) {
			return errors.Wrap(errors.ErrInvalidInput, "malformed result")
		}
		raw = raw[n:]
		results = append(results, append([]byte(nil), raw[:size]...))
		raw = raw[size:]
	}
	r.Results = results
	return nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []lockbox.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []lockbox.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]lockbox.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrap(errors.ErrInvalidState, "mismatched result set size")
	}
	mods := make([]lockbox.Model, len(kref))
	for i := range mods {
		mods[i] = lockbox.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o lockbox.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
