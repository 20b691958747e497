// Package lockboxtest provides mocks and helpers shared by tests of all
// lockbox packages.
package lockboxtest
