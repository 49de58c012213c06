/*
Package cash defines a simple implementation of sending tokens between
addresses.

There is no logic in the tokens, except that the balance of any token may
not go below zero. Thus, this implementation is referred to as cash. Simple
and safe.

Balances are kept per address and ticker, so moving one token never reads or
writes the balances of another one.
*/
package cash
