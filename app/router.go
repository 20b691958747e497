package app

import (
	"context"
	"fmt"
	"regexp"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]lockbox.Handler
}

var _ lockbox.Registry = (*Router)(nil)
var _ lockbox.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]lockbox.Handler),
	}
}

// Handle adds a new Handler for the given message type.
// panics if another Handler was already registered
func (r *Router) Handle(msg lockbox.Msg, h lockbox.Handler) {
	path := msg.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path.
func (r *Router) handler(m lockbox.Msg) lockbox.Handler {
	if h, ok := r.routes[m.Path()]; ok {
		return h
	}
	return notFoundHandler(m.Path())
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "missing message")
	}
	return r.handler(msg).Check(ctx, info, db, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx context.Context, info lockbox.BlockInfo, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "missing message")
	}
	return r.handler(msg).Deliver(ctx, info, db, tx)
}

// notFoundHandler always returns ErrNotFound error regardless of the
// arguments.
type notFoundHandler string

func (path notFoundHandler) Check(context.Context, lockbox.BlockInfo, lockbox.KVStore, lockbox.Tx) (*lockbox.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(context.Context, lockbox.BlockInfo, lockbox.KVStore, lockbox.Tx) (*lockbox.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
