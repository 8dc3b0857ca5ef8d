// Package reliability provides the failure-handling primitives used by
// the bus: a circuit breaker guarding each transport client and backoff
// policies for the subscription receive loops.
package reliability
