/*
Package eventlog provides destinations for the events produced by
successfully delivered transactions.

Recorder keeps events in memory and is meant for tests. LogSink writes every
event to a logger. Journal is a durable, append only SQLite log that can be
queried by event kind. MultiSink fans out to many sinks at once.
*/
package eventlog
