package app

import (
	"context"
	"reflect"

	"github.com/iov-one/lockbox"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []lockbox.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
    utils.NewSavepoint().OnDeliver(),
    sigs.NewDecorator(),
  ).WithHandler(
    myapp.NewRouter(),
  )
*/
func ChainDecorators(chain ...lockbox.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...lockbox.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := make([]lockbox.Decorator, 0, len(d.chain)+len(chain))
	newChain = append(newChain, d.chain...)
	newChain = append(newChain, chain...)
	return Decorators{newChain}
}

// cutoffNil removes all nil values from given slice.
func cutoffNil(ds []lockbox.Decorator) []lockbox.Decorator {
	out := make([]lockbox.Decorator, 0, len(ds))
	for _, d := range ds {
		if d == nil {
			continue
		}
		if v := reflect.ValueOf(d); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		out = append(out, d)
	}
	return out
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h lockbox.Handler) lockbox.Handler {
	// start wrapping the handler from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler. Simplified version of a closure.
type step struct {
	d    lockbox.Decorator
	next lockbox.Handler
}

var _ lockbox.Handler = step{}

func (s step) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	return s.d.Check(ctx, info, db, tx, s.next)
}

func (s step) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	return s.d.Deliver(ctx, info, db, tx, s.next)
}
