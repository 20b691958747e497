package alloc

import "github.com/iov-one/lockbox/errors"

// ErrAlreadyAllocated is returned when allocating an address that is in use.
var ErrAlreadyAllocated = errors.Register(150, "address already allocated")
