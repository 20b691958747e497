package escrow

import (
	"context"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/x"
)

type contextKey int // local to the escrow module

const (
	contextKeyEscrow contextKey = iota
)

// withEscrow grants the authority of an escrow address for the rest of the
// call. Only the handlers of this package can do it.
func withEscrow(ctx context.Context, escrow lockbox.Address) context.Context {
	return context.WithValue(ctx, contextKeyEscrow, escrow)
}

// Authenticate gets/sets permissions on the given context key
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetAddresses returns the escrow address granted in the context, if any.
func (a Authenticate) GetAddresses(ctx context.Context) []lockbox.Address {
	val, ok := ctx.Value(contextKeyEscrow).(lockbox.Address)
	if !ok {
		return nil
	}
	return []lockbox.Address{val}
}

// HasAddress returns true if addr is the escrow granted in the context.
func (a Authenticate) HasAddress(ctx context.Context, addr lockbox.Address) bool {
	val, ok := ctx.Value(contextKeyEscrow).(lockbox.Address)
	return ok && addr.Equals(val)
}
