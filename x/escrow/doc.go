/*
Package escrow implements a time-locked exchange of two fungible assets.

A maker deposits an amount of one asset into a vault and names the amount of
another asset they want in return. After the lock period elapses anybody can
take the deal by paying the requested amount, receiving the whole vault in
exchange. Until the deal is taken the maker can refund it at any time.

The escrow record lives at an address derived from the maker and a seed the
maker picks. The vault is the holding of the deposit asset owned by the
escrow address. No key exists for a derived address, so only the handlers of
this package, which alone can authenticate the escrow address, can move funds
out of the vault.
*/
package escrow
