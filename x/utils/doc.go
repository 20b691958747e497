// Package utils provides decorators shared by all lockbox applications:
// panic recovery, logging, per-transaction savepoints and action tagging.
package utils
