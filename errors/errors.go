package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors. Codes are part of the client protocol and must never change.
var (
	// ErrUnauthorized: a required signature is missing.
	ErrUnauthorized = Register(2, "unauthorized")
	// ErrNotFound: a holding, asset or escrow does not exist.
	ErrNotFound = Register(3, "not found")
	// ErrInvalidMsg: a message failed its stateless validation.
	ErrInvalidMsg = Register(4, "invalid message")
	// ErrInvalidModel: a record cannot be persisted as is.
	ErrInvalidModel = Register(5, "invalid model")
	// ErrDuplicate: a record with the same key already exists.
	ErrDuplicate = Register(6, "duplicate")
	// ErrHuman marks a code path that correct wiring never reaches.
	ErrHuman = Register(7, "coding error")
	// ErrCannotBeModified: a write-once value was written again.
	ErrCannotBeModified = Register(8, "cannot be modified")
	// ErrEmpty: a required value is missing.
	ErrEmpty = Register(9, "value is empty")
	// ErrInvalidState: the ledger is not in the state an operation needs.
	ErrInvalidState = Register(10, "invalid state")
	// ErrInvalidType: a decoded value has an unexpected type.
	ErrInvalidType = Register(11, "invalid type")
	// ErrInsufficientAmount: a holding cannot cover a transfer.
	ErrInsufficientAmount = Register(12, "insufficient amount")
	// ErrInvalidAmount: an amount is negative or otherwise unusable.
	ErrInvalidAmount = Register(13, "invalid amount")
	// ErrInvalidInput covers malformed input of any other kind.
	ErrInvalidInput = Register(14, "invalid input")
	// ErrOverflow: a balance or tick computation exceeds its type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")
	// ErrAddressMismatch: a supplied address is not the derived one.
	ErrAddressMismatch = Register(17, "address mismatch")
	// ErrDatabase: the underlying storage failed.
	ErrDatabase = Register(18, "database")
	// ErrPanic is set by Recover only. Its message is never shown to
	// clients outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry maps every code handed out by Register to its root error. Code 1
// is reserved for errors that carry no code at all.
var registry = map[uint32]*Error{
	internalABCICode: nil,
}

// Register declares a root error. Extensions call it from a package level var
// block to get their own codes. Registering a code twice panics.
func Register(code uint32, description string) *Error {
	if prev, taken := registry[code]; taken {
		if prev == nil {
			panic(fmt.Sprintf("error code %d is reserved", code))
		}
		panic(fmt.Sprintf("error code %d is already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error, identified by its ABCI code. Errors returned at
// runtime wrap one of them.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string { return e.desc }

// ABCICode is the code returned to clients.
func (e Error) ABCICode() uint32 { return e.code }

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with a format string.
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether err is e or wraps it. A nil *Error matches only nil
// errors, including typed nil pointers.
func (e *Error) Is(err error) bool {
	if e == nil {
		return err == nil || reflect.ValueOf(err).IsNil()
	}
	found := false
	walk(err, func(layer error) bool {
		found = layer == e
		return found
	})
	return found
}

// Wrap adds a description to err and returns nil for a nil err. A stack
// trace is attached at the innermost wrap only. Errors without an ABCI code
// stay internal and are hidden from clients.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrapped{msg: description, parent: err}
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrapped struct {
	msg    string
	parent error
}

func (w *wrapped) Error() string { return w.msg + ": " + w.parent.Error() }

func (w *wrapped) Cause() error { return w.parent }

// Recover turns a panic into an ErrPanic assigned to *err. It must be
// deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

// walk calls visit on err and every error it wraps, outermost first, until
// visit returns true or the chain ends.
func walk(err error, visit func(error) bool) {
	for err != nil {
		if visit(err) {
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found in the chain of err.
func stackTrace(err error) (st errors.StackTrace) {
	walk(err, func(layer error) bool {
		if s, ok := layer.(stackTracer); ok {
			st = s.StackTrace()
			return true
		}
		return false
	})
	return st
}
