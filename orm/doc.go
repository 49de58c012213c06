/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* Models are addressed by their primary key.
* Easy queries for one and ordered iteration over all.

Models are serialized using protobuf.
*/
package orm
