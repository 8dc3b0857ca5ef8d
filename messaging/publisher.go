package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/vibeflow/eventbus-go/contracts"
	"github.com/vibeflow/eventbus-go/internal/reliability"
	"github.com/vibeflow/eventbus-go/routing"
)

// PublishResult describes where an event landed. It is one of
// DurableLogResult, FastStoreResult or DirectResult.
type PublishResult interface {
	// Transport names the transport that produced this result.
	Transport() routing.Transport
}

// DurableLogResult is the outcome of an append to the durable log.
type DurableLogResult struct {
	EventID            string
	Topic              string
	PartitionKey       string
	Partition          int
	Offset             int64
	OrderingGuaranteed bool
}

// Transport implements PublishResult.
func (DurableLogResult) Transport() routing.Transport { return routing.TransportDurableLog }

// FastStoreResult is the outcome of a fast-store publish.
type FastStoreResult struct {
	EventID string
	Channel string
	Stored  bool
}

// Transport implements PublishResult.
func (FastStoreResult) Transport() routing.Transport { return routing.TransportFastStore }

// DirectResult signals that the event is meant for synchronous
// in-process handling; no network call was made.
type DirectResult struct {
	EventID           string
	ProcessedDirectly bool
}

// Transport implements PublishResult.
func (DirectResult) Transport() routing.Transport { return routing.TransportDirect }

// HybridPublisher executes routing decisions against the two transport
// ports, tolerating partial failure in Both mode. It is safe for
// concurrent use; no locks are held across transport calls.
type HybridPublisher struct {
	durable        DurableLogClient // nil when the durable log is disabled
	fast           FastStoreClient
	strategy       *routing.Strategy
	logger         *slog.Logger
	metrics        MetricsCollector
	durableBreaker *reliability.CircuitBreaker
	fastBreaker    *reliability.CircuitBreaker
	hotKeyBuckets  bool
}

// PublisherOption configures the HybridPublisher.
type PublisherOption func(*HybridPublisher)

// WithPublisherLogger sets the logger.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *HybridPublisher) {
		p.logger = logger
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(collector MetricsCollector) PublisherOption {
	return func(p *HybridPublisher) {
		p.metrics = collector
	}
}

// WithHotKeyBuckets enables time-bucketed partition keys for
// high-frequency non-critical categories. Financial categories always
// keep their plain entity key.
func WithHotKeyBuckets(enabled bool) PublisherOption {
	return func(p *HybridPublisher) {
		p.hotKeyBuckets = enabled
	}
}

// NewHybridPublisher creates a publisher over the two transport ports.
// durable may be nil when the durable log is disabled; strict-ordering
// events then fail rather than degrade to the fast store.
func NewHybridPublisher(durable DurableLogClient, fast FastStoreClient, strategy *routing.Strategy, options ...PublisherOption) *HybridPublisher {
	p := &HybridPublisher{
		durable:  durable,
		fast:     fast,
		strategy: strategy,
		logger:   slog.Default(),
		metrics:  NoOpMetricsCollector{},
		durableBreaker: reliability.NewCircuitBreaker(
			reliability.WithName("durable-log"),
		),
		fastBreaker: reliability.NewCircuitBreaker(
			reliability.WithName("fast-store"),
		),
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Publish validates, routes and sends one envelope. Validation and
// serialization failures abort before any network attempt. In Both
// mode the publish succeeds if at least one transport accepts the
// event, preferring the durable log result.
func (p *HybridPublisher) Publish(ctx context.Context, env contracts.Envelope) (PublishResult, error) {
	if err := routing.ValidateFinancial(env); err != nil {
		p.metrics.RecordError("publisher", "validation")
		return nil, err
	}

	decision := p.strategy.Decide(env)

	data, err := json.Marshal(env)
	if err != nil {
		p.metrics.RecordError("publisher", "serialization")
		return nil, &contracts.SerializationError{EventID: env.Metadata.EventID, Err: err}
	}

	p.logger.Debug("publishing event",
		"eventId", env.Metadata.EventID,
		"eventType", env.Metadata.EventType,
		"transport", decision.Transport.String(),
		"reason", decision.Reason,
	)

	switch decision.Transport {
	case routing.TransportDurableLog:
		result, err := p.publishDurable(ctx, env, data)
		if err != nil {
			return nil, p.publishFailure(env, err, "durable-log")
		}
		return result, nil

	case routing.TransportFastStore:
		result, err := p.publishFast(ctx, env, decision, data)
		if err != nil {
			return nil, p.publishFailure(env, err, "fast-store")
		}
		return result, nil

	case routing.TransportBoth:
		return p.publishBoth(ctx, env, decision, data)

	case routing.TransportDirect:
		p.logger.Debug("event marked for direct processing", "eventId", env.Metadata.EventID)
		return DirectResult{EventID: env.Metadata.EventID, ProcessedDirectly: true}, nil

	default:
		return nil, p.publishFailure(env, fmt.Errorf("unknown transport %v", decision.Transport))
	}
}

// publishBoth attempts both transports independently and succeeds when
// at least one succeeds. There is no retry of the failed side; the
// caller sees a warning log, not an error.
func (p *HybridPublisher) publishBoth(ctx context.Context, env contracts.Envelope, decision routing.Decision, data []byte) (PublishResult, error) {
	durableResult, durableErr := p.publishDurable(ctx, env, data)
	fastResult, fastErr := p.publishFast(ctx, env, decision, data)

	switch {
	case durableErr == nil && fastErr == nil:
		return durableResult, nil
	case durableErr == nil:
		p.logger.Warn("fast store publish failed, durable log succeeded",
			"eventId", env.Metadata.EventID, "error", fastErr)
		return durableResult, nil
	case fastErr == nil:
		p.logger.Warn("durable log publish failed, fast store succeeded",
			"eventId", env.Metadata.EventID, "error", durableErr)
		return fastResult, nil
	default:
		p.logger.Error("both transports failed",
			"eventId", env.Metadata.EventID,
			"durableError", durableErr, "fastError", fastErr)
		return nil, p.publishFailure(env, durableErr, "durable-log", "fast-store")
	}
}

func (p *HybridPublisher) publishDurable(ctx context.Context, env contracts.Envelope, data []byte) (PublishResult, error) {
	start := time.Now()

	if p.durable == nil {
		p.metrics.RecordPublish(env.Metadata.EventType, "durable-log", time.Since(start), false)
		return nil, &contracts.TransportError{
			Transport: "durable-log",
			Op:        "append",
			Err:       contracts.ErrTransportDisabled,
		}
	}

	topic := routing.TopicForEvent(env.Metadata.EventType)
	key := p.partitionKey(env)

	var appended AppendResult
	err := p.durableBreaker.Execute(ctx, func() error {
		var appendErr error
		appended, appendErr = p.durable.Append(ctx, topic, key, data)
		return appendErr
	})
	p.metrics.RecordPublish(env.Metadata.EventType, "durable-log", time.Since(start), err == nil)
	if err != nil {
		return nil, &contracts.TransportError{Transport: "durable-log", Op: "append", Err: err}
	}

	return DurableLogResult{
		EventID:            env.Metadata.EventID,
		Topic:              topic,
		PartitionKey:       key,
		Partition:          appended.Partition,
		Offset:             appended.Offset,
		OrderingGuaranteed: routing.RequiresStrictOrdering(env),
	}, nil
}

func (p *HybridPublisher) publishFast(ctx context.Context, env contracts.Envelope, decision routing.Decision, data []byte) (PublishResult, error) {
	start := time.Now()

	channel := decision.Channel
	if channel == "" {
		channel = routing.ChannelForEvent(env.Metadata.EventType)
	}

	err := p.fastBreaker.Execute(ctx, func() error {
		if pubErr := p.fast.Publish(ctx, channel, data); pubErr != nil {
			return pubErr
		}
		if decision.Store {
			key := CacheKey(env.Metadata.EventType, env.Metadata.EventID)
			return p.fast.SetWithTTL(ctx, key, data, decision.CacheTTL)
		}
		return nil
	})
	p.metrics.RecordPublish(env.Metadata.EventType, "fast-store", time.Since(start), err == nil)
	if err != nil {
		return nil, &contracts.TransportError{Transport: "fast-store", Op: "publish", Err: err}
	}

	return FastStoreResult{
		EventID: env.Metadata.EventID,
		Channel: channel,
		Stored:  decision.Store,
	}, nil
}

// partitionKey resolves the ordering key, bucketing hot non-critical
// categories when enabled.
func (p *HybridPublisher) partitionKey(env contracts.Envelope) string {
	if p.hotKeyBuckets {
		return routing.HighFrequencyPartitionKey(env)
	}
	return routing.PartitionKey(env)
}

func (p *HybridPublisher) publishFailure(env contracts.Envelope, err error, transports ...string) error {
	return &contracts.PublishError{
		EventID:    env.Metadata.EventID,
		EventType:  env.Metadata.EventType,
		Transports: transports,
		Err:        err,
	}
}

// CacheKey is the fast-store key for the cached copy of an event.
func CacheKey(eventType, eventID string) string {
	return fmt.Sprintf("vibeflow:event:%s:%s", eventType, eventID)
}
