// Package contracts defines the envelope and payload types that flow
// through the hybrid event bus.
//
// The core types are:
//   - Envelope: metadata plus exactly one domain event payload
//   - EventMetadata: identity, tracing and routing fields
//   - EventPayload: the closed tagged union of domain event payloads
//
// Payloads form a closed set: decoding an unknown discriminator is an
// error, and every new variant needs explicit cases in the routing
// tables under the routing package. The package also defines the error
// taxonomy shared by publishers and subscribers.
package contracts
