// Package routing computes the transport coordinates for envelopes:
// topic resolution, partition key derivation, financial invariant
// validation, ordering priority and the per-event transport decision.
//
// All of it is pure computation over immutable tables; nothing here
// touches a network. Partition keys are the load-bearing piece: events
// for one logical entity always hash to one key, which is what lets a
// single-reader log partition observe them in causal order.
package routing
