package x

import (
	"context"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	a := lockboxtest.NewAddress()
	b := lockboxtest.NewAddress()
	c := lockboxtest.NewAddress()

	ctxAuth := &lockboxtest.CtxAuth{Key: "program"}
	withC := ctxAuth.SetAddresses(context.Background(), c)

	cases := map[string]struct {
		ctx          context.Context
		auth         Authenticator
		mainSigner   lockbox.Address
		wantInCtx    lockbox.Address
		wantNotInCtx lockbox.Address
		wantAll      []lockbox.Address
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &lockboxtest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &lockboxtest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []lockbox.Address{a},
		},
		"chained signers keep order": {
			ctx: context.Background(),
			auth: ChainAuth(
				&lockboxtest.Auth{Signer: b},
				&lockboxtest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    a,
			wantNotInCtx: c,
			wantAll:      []lockbox.Address{b, a},
		},
		"program authority from context": {
			ctx:          withC,
			auth:         ChainAuth(&lockboxtest.Auth{Signer: a}, ctxAuth),
			mainSigner:   a,
			wantInCtx:    c,
			wantNotInCtx: b,
			wantAll:      []lockbox.Address{a, c},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil {
				assert.True(t, tc.auth.HasAddress(tc.ctx, tc.wantInCtx))
			}
			assert.False(t, tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx))

			all := tc.auth.GetAddresses(tc.ctx)
			assert.Equal(t, tc.wantAll, all)
			assert.True(t, HasAllAddresses(tc.ctx, tc.auth, all))
			assert.False(t, HasAllAddresses(tc.ctx, tc.auth, append(all, tc.wantNotInCtx)))
			assert.True(t, HasNAddresses(tc.ctx, tc.auth, append(all, tc.wantNotInCtx), len(all)))
		})
	}
}
