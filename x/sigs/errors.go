package sigs

import "github.com/iov-one/lockbox/errors"

// ErrInvalidSequence is returned when a signature carries a sequence other
// than the next one expected for the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
