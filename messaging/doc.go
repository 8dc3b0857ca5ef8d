// Package messaging provides the transport-facing core of the hybrid
// event bus.
//
//   - DurableLogClient / FastStoreClient: abstract ports to the two
//     transports; concrete adapters live under transports/
//   - HybridPublisher: validates, routes and publishes envelopes,
//     tolerating partial failure when both transports are in play
//   - SubscriptionManager: cancellable background consumers that decode
//     envelopes and dispatch them with per-message failure isolation
//   - EventDispatcher: fan-out handler registry with middleware support
//
// Publish calls never hold locks across transport round trips, and the
// two client handles are shared read-mostly between producers and
// consumers.
package messaging
