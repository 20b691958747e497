package utils

import (
	"context"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func TestActionTagger(t *testing.T) {
	cases := map[string]struct {
		handler lockbox.Handler
		tx      lockbox.Tx
		wantErr *errors.Error
		tags    []common.KVPair
	}{
		"simple call": {
			handler: &lockboxtest.Handler{},
			tx:      &lockboxtest.Tx{Msg: &lockboxtest.Msg{RoutePath: "escrow/make"}},
			tags: []common.KVPair{
				lockbox.Tag(ActionKey, []byte("escrow/make")),
				lockbox.Tag(TickKey, []byte("42")),
			},
		},
		"existing tags are kept": {
			handler: &lockboxtest.Handler{
				DeliverResult: lockbox.DeliverResult{
					Tags: []common.KVPair{lockbox.Tag("escrow", []byte("AB"))},
				},
			},
			tx: &lockboxtest.Tx{Msg: &lockboxtest.Msg{RoutePath: "escrow/take"}},
			tags: []common.KVPair{
				lockbox.Tag("escrow", []byte("AB")),
				lockbox.Tag(ActionKey, []byte("escrow/take")),
				lockbox.Tag(TickKey, []byte("42")),
			},
		},
		"failure is not tagged": {
			handler: &lockboxtest.Handler{DeliverErr: errors.ErrNotFound},
			tx:      &lockboxtest.Tx{Msg: &lockboxtest.Msg{RoutePath: "escrow/refund"}},
			wantErr: errors.ErrNotFound,
		},
		"broken transaction": {
			handler: &lockboxtest.Handler{},
			tx:      &lockboxtest.Tx{Err: errors.ErrInvalidMsg},
			wantErr: errors.ErrInvalidMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res, err := NewActionTagger().Deliver(context.Background(), lockboxtest.BlockAt(42), store.MemStore(), tc.tx, tc.handler)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.tags, res.Tags)
		})
	}
}
