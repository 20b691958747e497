package errors

import (
	"fmt"
	"reflect"
)

const (
	// SuccessABCICode is the code of a response without error.
	SuccessABCICode = 0

	// Errors without a code of their own are reported with code 1 and,
	// outside of debug mode, a fixed message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response for err.
//
// Registered errors keep their message. Anything else is internal: its
// message is replaced with "internal error" unless debug is set, in which
// case the full error with stack trace is returned.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError rebuilds an error from the code and log of an ABCI response, so
// a client can test it with ErrXyz.Is. Codes not registered in this process
// produce an error that matches no root error.
func ABCIError(code uint32, log string) error {
	if root := registry[code]; root != nil {
		return Wrap(root, log)
	}
	return Wrap(Error{code: code, desc: "unknown error code"}, log)
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the outermost layer of err that has one.
func abciCode(err error) uint32 {
	code := internalABCICode
	walk(err, func(layer error) bool {
		c, ok := layer.(coder)
		if ok {
			code = c.ABCICode()
		}
		return ok
	})
	return code
}

// isNil also catches typed nil pointers, like a nil *Error stored in an
// error interface.
func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
