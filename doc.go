/*
Package lockbox defines the interfaces used throughout the application, such
as storage, transactions, handlers and block information, together with the
keyless address derivation that every extension relies on.

Extensions live under x/ and are wired together by an application package
(see cmd/lockboxd/app). The escrow extension (x/escrow) is the reason this
module exists: a time-locked, two-asset escrow whose record and custodial
vault live at addresses derived from the maker and a seed.
*/
package lockbox
