package messaging

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/vibeflow/eventbus-go/contracts"
)

// EventHandler processes a delivered envelope.
type EventHandler interface {
	Handle(ctx context.Context, env contracts.Envelope) error
}

// EventHandlerFunc is a function adapter for EventHandler.
type EventHandlerFunc func(ctx context.Context, env contracts.Envelope) error

// Handle implements EventHandler.
func (f EventHandlerFunc) Handle(ctx context.Context, env contracts.Envelope) error {
	return f(ctx, env)
}

// MetricsCollector collects bus metrics.
type MetricsCollector interface {
	// RecordPublish records a publish attempt against one transport.
	RecordPublish(eventType, transport string, duration time.Duration, success bool)

	// RecordConsume records a handled delivery.
	RecordConsume(channel, eventType string, duration time.Duration, success bool)

	// RecordError records a component error.
	RecordError(component, errorType string)

	// GetStats returns current counters.
	GetStats() Stats
}

// Stats contains bus counters.
type Stats struct {
	EventsPublished int64
	EventsConsumed  int64
	PublishFailures int64
	HandlerFailures int64
}

// NoOpMetricsCollector discards all metrics.
type NoOpMetricsCollector struct{}

// RecordPublish does nothing.
func (NoOpMetricsCollector) RecordPublish(string, string, time.Duration, bool) {}

// RecordConsume does nothing.
func (NoOpMetricsCollector) RecordConsume(string, string, time.Duration, bool) {}

// RecordError does nothing.
func (NoOpMetricsCollector) RecordError(string, string) {}

// GetStats returns empty stats.
func (NoOpMetricsCollector) GetStats() Stats { return Stats{} }

// CountingMetricsCollector keeps in-process counters without an
// external metrics backend.
type CountingMetricsCollector struct {
	published atomic.Int64
	consumed  atomic.Int64
	pubFails  atomic.Int64
	hdlFails  atomic.Int64
}

// RecordPublish implements MetricsCollector.
func (c *CountingMetricsCollector) RecordPublish(_, _ string, _ time.Duration, success bool) {
	if success {
		c.published.Add(1)
	} else {
		c.pubFails.Add(1)
	}
}

// RecordConsume implements MetricsCollector.
func (c *CountingMetricsCollector) RecordConsume(_, _ string, _ time.Duration, success bool) {
	if success {
		c.consumed.Add(1)
	} else {
		c.hdlFails.Add(1)
	}
}

// RecordError implements MetricsCollector.
func (c *CountingMetricsCollector) RecordError(string, string) {}

// GetStats implements MetricsCollector.
func (c *CountingMetricsCollector) GetStats() Stats {
	return Stats{
		EventsPublished: c.published.Load(),
		EventsConsumed:  c.consumed.Load(),
		PublishFailures: c.pubFails.Load(),
		HandlerFailures: c.hdlFails.Load(),
	}
}
