/*
Package app glues the extensions together.

The Router dispatches a transaction to the handler registered for its
message path and ChainDecorators wraps it with the shared decorators.
Engine is the in-process host. It executes one call at a time on a cache
wrap of the committed store, commits it on success and only then publishes
the events the call produced.
*/
package app
