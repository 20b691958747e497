package lockbox_test

import (
	"fmt"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func TestTxErrorResults(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"registered error": {
			err:      errors.Wrap(errors.ErrNotFound, "escrow"),
			wantCode: errors.ErrNotFound.ABCICode(),
			wantLog:  "escrow: not found",
		},
		"stdlib error is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantCode: 1,
			wantLog:  "internal error",
		},
		"stdlib error in debug mode": {
			err:      fmt.Errorf("disk on fire"),
			debug:    true,
			wantCode: 1,
			wantLog:  "disk on fire",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			d := lockbox.DeliverTxError(tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, d.Code)
			assert.Contains(t, d.Log, "cannot deliver tx")
			assert.Contains(t, d.Log, tc.wantLog)

			c := lockbox.CheckTxError(tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, c.Code)
			assert.Contains(t, c.Log, "cannot check tx")
			assert.Contains(t, c.Log, tc.wantLog)
		})
	}
}

func TestResultsToABCI(t *testing.T) {
	tags := []common.KVPair{
		lockbox.Tag("escrow", []byte("AB")),
		lockbox.Tag("action", []byte("escrow/make")),
	}

	d := lockbox.DeliverResult{Data: []byte("id"), Log: "made", Tags: tags, GasUsed: 300}
	res := lockbox.DeliverOrError(&d, nil, false)
	assert.Equal(t, uint32(0), res.Code)
	assert.Equal(t, []byte("id"), res.Data)
	assert.Equal(t, "made", res.Log)
	assert.Equal(t, int64(300), res.GasUsed)
	require.Len(t, res.Tags, 2)

	action, ok := lockbox.FindTag(res.Tags, "action")
	assert.True(t, ok)
	assert.Equal(t, []byte("escrow/make"), action)
	_, ok = lockbox.FindTag(res.Tags, "taker")
	assert.False(t, ok)

	failed := lockbox.DeliverOrError(&d, errors.ErrUnauthorized, false)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), failed.Code)
	assert.Empty(t, failed.Data)

	c := lockbox.CheckOrError(&lockbox.CheckResult{GasAllocated: 300, Log: "checked"}, nil, false)
	assert.Equal(t, int64(300), c.GasWanted)
	assert.Equal(t, "checked", c.Log)
}
