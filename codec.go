package lockbox

import (
	"bytes"

	"github.com/iov-one/lockbox/errors"
)

// CheckCanonical verifies that raw is exactly the serialization of the
// already decoded m. Messages and records have a single valid encoding, so
// trailing bytes or non-minimal integers are rejected.
func CheckCanonical(m Marshaller, raw []byte) error {
	want, err := m.Marshal()
	if err != nil {
		return err
	}
	if !bytes.Equal(want, raw) {
		return errors.Wrap(errors.ErrInvalidInput, "non canonical encoding")
	}
	return nil
}
