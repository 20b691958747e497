package lockbox_test

import (
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type otherMsg struct {
	lockboxtest.Msg
}

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		tx      lockbox.Tx
		dest    lockbox.Msg
		wantErr *errors.Error
		want    lockbox.Msg
	}{
		"success": {
			tx:   &lockboxtest.Tx{Msg: &lockboxtest.Msg{RoutePath: "a/b", Serialized: []byte("x")}},
			dest: &lockboxtest.Msg{},
			want: &lockboxtest.Msg{RoutePath: "a/b", Serialized: []byte("x")},
		},
		"transaction error": {
			tx:      &lockboxtest.Tx{Err: errors.ErrInvalidInput},
			dest:    &lockboxtest.Msg{},
			wantErr: errors.ErrInvalidInput,
		},
		"missing message": {
			tx:      &lockboxtest.Tx{},
			dest:    &lockboxtest.Msg{},
			wantErr: errors.ErrInvalidMsg,
		},
		"message of another type": {
			tx:      &lockboxtest.Tx{Msg: &lockboxtest.Msg{RoutePath: "a/b"}},
			dest:    &otherMsg{},
			wantErr: errors.ErrInvalidType,
		},
		"invalid message": {
			tx:      &lockboxtest.Tx{Msg: &lockboxtest.Msg{RoutePath: "a/b", Err: errors.ErrEmpty}},
			dest:    &lockboxtest.Msg{},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := lockbox.LoadMsg(tc.tx, tc.dest)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, tc.dest)
		})
	}
}

func TestGetPath(t *testing.T) {
	tx := &lockboxtest.Tx{Msg: &lockboxtest.Msg{RoutePath: "escrow/take"}}
	assert.Equal(t, "escrow/take", lockbox.GetPath(tx))

	assert.Equal(t, "(missing)", lockbox.GetPath(&lockboxtest.Tx{}))
	assert.Equal(t, "(missing)", lockbox.GetPath(&lockboxtest.Tx{Err: errors.ErrInvalidMsg}))
}

func TestCheckCanonical(t *testing.T) {
	m := &lockboxtest.Msg{Serialized: []byte{1, 2, 3}}
	assert.NoError(t, lockbox.CheckCanonical(m, []byte{1, 2, 3}))

	err := lockbox.CheckCanonical(m, []byte{1, 2, 3, 0})
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
