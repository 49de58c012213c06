/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package keeps at most one configuration object, a protobuf message
stored under the "_c:<package name>" key. A configuration is validated before
it is written, can be loaded from the genesis file with InitConfig and
modified later by its owner with UpdateConfigurationHandler.
*/
package gconf
