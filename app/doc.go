/*
Package app contains the pieces needed to run the ledger as an abci
application: the message router, the decorator chain and the StoreApp/BaseApp
implementation of the abci interface on top of a committed store.
*/
package app
