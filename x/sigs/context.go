package sigs

import (
	"context"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx context.Context, signers []lockbox.Address) context.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate exposes the transaction signers.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetAddresses returns who signed the current Context.
// May be empty
func (a Authenticate) GetAddresses(ctx context.Context) []lockbox.Address {
	val, _ := ctx.Value(contextKeySigners).([]lockbox.Address)
	return val
}

// HasAddress returns true if given address signed the transaction.
func (a Authenticate) HasAddress(ctx context.Context, addr lockbox.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
