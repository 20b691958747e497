/*
Package errors implements the error taxonomy shared by all extensions.

Reuse the root errors declared here whenever possible and register a custom
error only when an extension needs its own category (x/escrow does, for the
locked deal condition). Root errors are created with Register(code, description)
and every runtime error should wrap one of them, using ErrXyz.New,
ErrXyz.Newf, Wrap or Wrapf, so that its kind can be tested with ErrXyz.Is and
its code returned to the client.

Wrapping attaches a stacktrace once, at the innermost wrap. Print an error
with %+v to see it.
*/
package errors
