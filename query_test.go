package lockbox_test

import (
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/stretchr/testify/assert"
)

type nopQuery struct{}

func (nopQuery) Query(lockbox.ReadOnlyKVStore, string, []byte) ([]lockbox.Model, error) {
	return nil, nil
}

func TestQueryRouter(t *testing.T) {
	qr := lockbox.NewQueryRouter()
	qr.RegisterAll(
		func(r lockbox.QueryRouter) { r.Register("/holdings", nopQuery{}) },
		func(r lockbox.QueryRouter) { r.Register("/escrows", nopQuery{}) },
	)

	assert.Equal(t, []string{"/escrows", "/holdings"}, qr.Paths())
	assert.NotNil(t, qr.Handler("/escrows"))
	assert.Nil(t, qr.Handler("/assets"))

	assert.Panics(t, func() { qr.Register("/escrows", nopQuery{}) }, "duplicate")
	assert.Panics(t, func() { qr.Register("escrows", nopQuery{}) }, "no leading slash")
	assert.Panics(t, func() { qr.Register("/escrows?prefix", nopQuery{}) }, "modifier in path")
}
