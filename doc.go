/*

Package quickex defines interfaces used throughout the escrow engine, such as:
storage, transactions, handlers and the block information supplied by the host.
Look into this package to get a brief overview of design decisions made around
interfaces and extension building blocks.

The commitment escrow itself lives in x/escrow. Supporting extensions (token
balances, signatures) live under x/, storage under store/ and orm/, and the
in-process host that executes calls atomically under app/.

*/
package quickex
