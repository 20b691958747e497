package lockboxtest

import (
	"context"
	"fmt"

	"github.com/iov-one/lockbox"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses. Signer and
// Signers are both considered each time.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer lockbox.Address

	// Signers represents an authentication of multiple signers.
	Signers []lockbox.Address
}

func (a *Auth) GetAddresses(context.Context) []lockbox.Address {
	if a.Signer != nil {
		return append(append([]lockbox.Address(nil), a.Signers...), a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx context.Context, addr lockbox.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve addresses.
type CtxAuth struct {
	// Key used to set and retrieve addresses from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetAddresses(ctx context.Context, addrs ...lockbox.Address) context.Context {
	return context.WithValue(ctx, ctxKey(a.Key), addrs)
}

func (a *CtxAuth) GetAddresses(ctx context.Context) []lockbox.Address {
	val := ctx.Value(ctxKey(a.Key))
	if val == nil {
		return nil
	}
	addrs, ok := val.([]lockbox.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []lockbox.Address got %T", val))
	}
	return addrs
}

func (a *CtxAuth) HasAddress(ctx context.Context, addr lockbox.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

type ctxKey string
