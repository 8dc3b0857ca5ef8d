package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vibeflow/eventbus-go/contracts"
	"github.com/vibeflow/eventbus-go/internal/reliability"
)

// SubscriptionManager runs one background consumer per fast-store
// channel, decoding envelopes and dispatching them to handlers. Handler
// and decode failures are isolated per message and never stop a loop.
type SubscriptionManager struct {
	fast              FastStoreClient
	logger            *slog.Logger
	metrics           MetricsCollector
	backoff           reliability.BackoffPolicy
	deadLetterChannel string

	mu     sync.Mutex
	subs   map[string]context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// SubscriberOption configures the SubscriptionManager.
type SubscriberOption func(*SubscriptionManager)

// WithSubscriberLogger sets the logger.
func WithSubscriberLogger(logger *slog.Logger) SubscriberOption {
	return func(m *SubscriptionManager) {
		m.logger = logger
	}
}

// WithSubscriberMetrics sets the metrics collector.
func WithSubscriberMetrics(collector MetricsCollector) SubscriberOption {
	return func(m *SubscriptionManager) {
		m.metrics = collector
	}
}

// WithReceiveBackoff sets the backoff applied after transient receive
// errors before the loop retries.
func WithReceiveBackoff(policy reliability.BackoffPolicy) SubscriberOption {
	return func(m *SubscriptionManager) {
		m.backoff = policy
	}
}

// WithDeadLetterChannel forwards undecodable messages to the given
// channel instead of only logging them. Empty disables forwarding.
func WithDeadLetterChannel(channel string) SubscriberOption {
	return func(m *SubscriptionManager) {
		m.deadLetterChannel = channel
	}
}

// NewSubscriptionManager creates a subscription manager over the fast
// store port.
func NewSubscriptionManager(fast FastStoreClient, options ...SubscriberOption) *SubscriptionManager {
	m := &SubscriptionManager{
		fast:    fast,
		logger:  slog.Default(),
		metrics: NoOpMetricsCollector{},
		backoff: reliability.NewExponentialBackoff(250*time.Millisecond, 10*time.Second, 2.0),
		subs:    make(map[string]context.CancelFunc),
	}

	for _, opt := range options {
		opt(m)
	}

	return m
}

// Subscribe starts a background consumption loop for one channel. The
// loop stops when ctx is cancelled, Unsubscribe is called for the
// channel, or the manager is closed.
func (m *SubscriptionManager) Subscribe(ctx context.Context, channel string, handler EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return fmt.Errorf("subscription manager is closed")
	}
	if _, exists := m.subs[channel]; exists {
		m.mu.Unlock()
		return fmt.Errorf("already subscribed to channel %s", channel)
	}
	loopCtx, cancel := context.WithCancel(ctx)
	m.subs[channel] = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	stream, err := m.fast.Subscribe(loopCtx, channel)
	if err != nil {
		m.removeSubscription(channel)
		m.wg.Done()
		return &contracts.TransportError{Transport: "fast-store", Op: "subscribe", Err: err}
	}

	go m.consume(loopCtx, channel, stream, handler)

	m.logger.Info("subscribed to channel", "channel", channel)
	return nil
}

// Unsubscribe stops the consumption loop for one channel.
func (m *SubscriptionManager) Unsubscribe(channel string) error {
	m.mu.Lock()
	cancel, exists := m.subs[channel]
	delete(m.subs, channel)
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("not subscribed to channel %s", channel)
	}
	cancel()
	return nil
}

// Close stops all loops and waits for in-flight handler calls to
// finish.
func (m *SubscriptionManager) Close() error {
	m.mu.Lock()
	m.closed = true
	for channel, cancel := range m.subs {
		cancel()
		delete(m.subs, channel)
	}
	m.mu.Unlock()

	m.wg.Wait()
	return nil
}

func (m *SubscriptionManager) removeSubscription(channel string) {
	m.mu.Lock()
	delete(m.subs, channel)
	m.mu.Unlock()
}

// consume is the per-channel receive loop. Cancellation is observed at
// the top of each iteration; transient receive errors back off and
// retry rather than killing the loop.
func (m *SubscriptionManager) consume(ctx context.Context, channel string, stream MessageStream, handler EventHandler) {
	defer m.wg.Done()
	defer stream.Close()

	attempt := 0
	for {
		if ctx.Err() != nil {
			m.logger.Info("subscription loop stopped", "channel", channel)
			return
		}

		payload, err := stream.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				m.logger.Info("subscription loop stopped", "channel", channel)
				return
			}
			delay := m.backoff.NextDelay(attempt)
			attempt++
			m.logger.Warn("receive failed, backing off",
				"channel", channel, "attempt", attempt, "delay", delay, "error", err)
			m.metrics.RecordError("subscriber", "receive")
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
			continue
		}
		attempt = 0

		m.dispatch(ctx, channel, payload, handler)
	}
}

// dispatch decodes and handles one delivery. Poison messages are
// logged, optionally forwarded to the dead-letter channel, and
// skipped; handler failures and panics are contained per message.
func (m *SubscriptionManager) dispatch(ctx context.Context, channel string, payload []byte, handler EventHandler) {
	var env contracts.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		m.logger.Error("failed to decode envelope, skipping message",
			"channel", channel, "error", err)
		m.metrics.RecordError("subscriber", "decode")
		m.forwardDeadLetter(ctx, channel, payload)
		return
	}

	start := time.Now()
	err := m.invoke(ctx, env, handler)
	m.metrics.RecordConsume(channel, env.Metadata.EventType, time.Since(start), err == nil)
	if err != nil {
		handlerErr := &contracts.HandlerError{
			EventID:   env.Metadata.EventID,
			EventType: env.Metadata.EventType,
			Err:       err,
		}
		m.logger.Error("event handler failed",
			"channel", channel,
			"eventId", env.Metadata.EventID,
			"eventType", env.Metadata.EventType,
			"error", handlerErr,
		)
	}
}

// invoke runs the handler, converting panics into errors so a broken
// handler cannot take down the loop.
func (m *SubscriptionManager) invoke(ctx context.Context, env contracts.Envelope, handler EventHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler.Handle(ctx, env)
}

func (m *SubscriptionManager) forwardDeadLetter(ctx context.Context, channel string, payload []byte) {
	if m.deadLetterChannel == "" || m.deadLetterChannel == channel {
		return
	}
	if err := m.fast.Publish(ctx, m.deadLetterChannel, payload); err != nil {
		m.logger.Error("dead letter forward failed",
			"channel", m.deadLetterChannel, "error", err)
	}
}
