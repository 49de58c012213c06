/*
Package escrow locks tokens behind a commitment.

A depositor picks a secret salt and binds the deposit to

	commitment = sha256(owner || amount || salt)

where the amount is encoded as a 16 byte big endian two's complement
integer. The commitment is the only key of the escrow entry. Anyone that
later reveals the owner, amount and salt can withdraw the funds to an
arbitrary recipient. Knowledge of the preimage is the authorization, no
signature is needed to withdraw.

An entry starts Pending and can be withdrawn exactly once, after which it is
Spent. Entries are never removed so that the history can be audited.

Deposits and withdrawals can be disabled by the configuration owner using
two independent gates.
*/
package escrow
