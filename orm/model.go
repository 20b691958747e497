/*
Package orm provides an easy to use db wrapper.

State space is broken into prefixed sections called buckets. Each bucket
contains only one type of model, keyed by the model address, and can be
exposed to the query router.
*/
package orm

import (
	"github.com/iov-one/lockbox"
)

// Model is implemented by any entity that can be stored in a Bucket.
type Model interface {
	lockbox.Persistent
	Validate() error
}
