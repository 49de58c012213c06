/*
Package utils contains decorators shared by all extensions.

Savepoint runs the rest of the stack in a cache wrap and writes it only on
success. Logging reports every call with its duration. Recovery turns
handler panics into ErrPanic errors.
*/
package utils
