package contracts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransportDisabled is returned when a publish targets a
	// transport that is administratively disabled.
	ErrTransportDisabled = errors.New("transport is disabled")
)

// ValidationError reports a financial invariant violation. Events that
// fail validation are never sent or cached.
type ValidationError struct {
	EventID   string
	EventType string
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s %s: %s", e.EventType, e.EventID, e.Reason)
}

// SerializationError reports a payload that could not be encoded or decoded.
type SerializationError struct {
	EventID string
	Err     error
}

func (e *SerializationError) Error() string {
	if e.EventID != "" {
		return fmt.Sprintf("serialization failed for event %s: %v", e.EventID, e.Err)
	}
	return fmt.Sprintf("serialization failed: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// TransportError reports that a specific transport client could not be
// reached or rejected the operation.
type TransportError struct {
	Transport string
	Op        string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport: %s failed: %v", e.Transport, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PublishError reports that every attempted transport failed, or that
// the sole selected transport failed. It carries enough context for the
// caller to retry or dead-letter the event.
type PublishError struct {
	EventID    string
	EventType  string
	Transports []string
	Err        error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish failed for %s %s via %s: %v",
		e.EventType, e.EventID, strings.Join(e.Transports, ","), e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// HandlerError reports a subscriber handler failure. It is contained
// within the subscription manager and logged, never propagated.
type HandlerError struct {
	EventID   string
	EventType string
	Err       error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler failed for %s %s: %v", e.EventType, e.EventID, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }
