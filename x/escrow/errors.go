package escrow

import "github.com/iov-one/lockbox/errors"

var (
	// ErrEscrowLocked is returned when taking a deal before its lock
	// period elapsed.
	ErrEscrowLocked = errors.Register(6000, "Escrow locked. Try again after lock period elapses")

	// ErrUnknown is returned for failures of the asset services, which
	// have no dedicated code.
	ErrUnknown = errors.Register(6001, "unknown error")
)

// assetError hides the cause of an asset service failure behind
// ErrUnknown, keeping its message.
func assetError(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(ErrUnknown, "%s: %s", op, err)
}
