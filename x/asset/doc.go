/*
Package asset implements fungible asset types and the holdings of them.

An asset is created by its authority, the only identity allowed to mint it.
Balances are kept in holdings. Every owner has at most one holding of each
asset, stored at the address derived from the owner, the transfer program and
the asset. Anybody may create a holding for any owner, but only an identity
authenticated as the owner can move funds out of it or close it.
*/
package asset
