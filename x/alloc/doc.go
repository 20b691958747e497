/*
Package alloc implements storage allocation for ledger accounts.

Every account that keeps state on the ledger must be allocated first. The
allocation locks a reserve of storage credits taken from a payer. When the
account is closed, the reserve is reclaimed and credited to a destination of
the caller's choice. An address can be allocated only once at a time.

The reserve of an allocation is computed from the package configuration as

	base_reserve + byte_rate * size
*/
package alloc
