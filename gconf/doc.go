/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Every extension keeps its configuration as a single validated entity stored
under the "_c:<package name>" key. Configuration is loaded from the "conf"
section of the genesis file at chain initialization.
*/
package gconf
