package app

import (
	"context"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &lockboxtest.Decorator{}
	c2 := &lockboxtest.Decorator{}
	c3 := &lockboxtest.Decorator{}
	var missing *lockboxtest.Decorator
	h := &lockboxtest.Handler{}

	stack := ChainDecorators(c1, missing, c2, nil).Chain(c3).WithHandler(h)

	ctx := context.Background()
	info := lockboxtest.BlockAt(1)
	db := store.MemStore()
	tx := &lockboxtest.Tx{}

	_, err := stack.Check(ctx, info, db, tx)
	assert.NoError(t, err)
	_, err = stack.Deliver(ctx, info, db, tx)
	assert.NoError(t, err)
	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// an error in the middle stops the chain
	c2.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(ctx, info, db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 3, c1.CallCount())
	assert.Equal(t, 3, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	var _ lockbox.Handler = stack
}
