/*
Package x contains the authentication glue shared by the extensions.

Extensions implement common functionality (Handler, Decorator, etc.) and are
combined together by the app package. An Authenticator is passed into the
constructor of every handler that needs to know who signed a transaction, so
that the signature scheme (x/sigs) can be replaced in tests.

Note that protobuf types in exported code will be prefixed by
the package, so follow standard go naming conventions and avoid
stutter. Use eg. `escrow.DepositMsg` in place of `escrow.EscrowDepositMsg`.
*/
package x
