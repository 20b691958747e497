package x

import (
	"context"

	"github.com/iov-one/lockbox"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. It is passed into the constructor of handlers, so we can
// plug in another authentication system rather than hard-coding x/sigs for
// all extensions.
//
// An address is authenticated either because its owner signed the
// transaction, or because a program holding authority over it put it into
// the context.
type Authenticator interface {
	// GetAddresses reveals all authenticated addresses.
	GetAddresses(context.Context) []lockbox.Address
	// HasAddress checks if given address is authenticated.
	HasAddress(context.Context, lockbox.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetAddresses combines all addresses from all Authenticators
func (m MultiAuth) GetAddresses(ctx context.Context) []lockbox.Address {
	var res []lockbox.Address
	for _, impl := range m.impls {
		res = append(res, impl.GetAddresses(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx context.Context, addr lockbox.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first authenticated address if any, otherwise nil
func MainSigner(ctx context.Context, auth Authenticator) lockbox.Address {
	signers := auth.GetAddresses(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx context.Context, auth Authenticator, required []lockbox.Address) bool {
	return HasNAddresses(ctx, auth, required, len(required))
}

// HasNAddresses returns true if at least n elements in required are
// also in context.
func HasNAddresses(ctx context.Context, auth Authenticator, required []lockbox.Address, n int) bool {
	if n <= 0 {
		return true
	}
	for _, r := range required {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}
